// Order service: creates, updates and reads orders, pricing each line item
// against the product catalog at request time.
//
//	@title        Order Service API
//	@version      1.0
//	@description  Order workflow over the product catalog.
//	@BasePath     /
package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/HuynhLeCongLap/soa-orders/docs"
	"github.com/HuynhLeCongLap/soa-orders/internal/catalog"
	"github.com/HuynhLeCongLap/soa-orders/internal/config"
	"github.com/HuynhLeCongLap/soa-orders/internal/httpx"
	ord "github.com/HuynhLeCongLap/soa-orders/internal/order"
	"github.com/HuynhLeCongLap/soa-orders/internal/storage"
)

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)
}

func main() {
	cfg := config.Load()

	pool := storage.MustOpen(context.Background(), cfg.PostgresDSN)
	defer pool.Close()

	repo := ord.NewPGRepo(pool)
	cat := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	svc := ord.NewService(repo, cat)

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics("order-service"))

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/orders", listOrdersHandler(svc))
	r.GET("/orders/:id", getOrderHandler(svc))
	r.POST("/orders", createOrderHandler(svc))
	r.PUT("/orders/:id", updateOrderHandler(svc))
	r.DELETE("/orders/:id", deleteOrderHandler(svc))

	log.Infof("order-service listening on %s", cfg.OrderSvcAddr)
	if err := r.Run(cfg.OrderSvcAddr); err != nil {
		log.Fatal("order-service: ", err)
	}
}
