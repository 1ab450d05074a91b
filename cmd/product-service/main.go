// Product catalog service: plain CRUD over the products table.
//
//	@title        Product Service API
//	@version      1.0
//	@description  Product catalog CRUD.
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
	"github.com/HuynhLeCongLap/soa-orders/internal/config"
	"github.com/HuynhLeCongLap/soa-orders/internal/httpx"
	prod "github.com/HuynhLeCongLap/soa-orders/internal/product"
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
	repo := prod.NewPGRepo(pool)

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics("product-service"))

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/products", listOnlyHandler(repo))
	r.GET("/products/search", searchHandler(repo))
	r.GET("/products/:id", getProductHandler(repo))
	r.POST("/products", createProductHandler(repo))
	r.PUT("/products/:id", updateProductHandler(repo))
	r.DELETE("/products/:id", deleteProductHandler(repo))

	log.Infof("product-service listening on %s", cfg.ProductSvcAddr)
	if err := r.Run(cfg.ProductSvcAddr); err != nil {
		log.Fatal("product-service: ", err)
	}
}
