package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HuynhLeCongLap/soa-orders/internal/catalog"
	ord "github.com/HuynhLeCongLap/soa-orders/internal/order"
)

// writeOrderError maps the workflow error taxonomy to HTTP statuses.
func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ord.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, ord.HTTPError{Error: err.Error()})
	case errors.Is(err, ord.ErrNotFound):
		c.JSON(http.StatusNotFound, ord.HTTPError{Error: err.Error()})
	case errors.Is(err, ord.ErrInsufficientStock):
		c.JSON(http.StatusConflict, ord.HTTPError{Error: err.Error()})
	case errors.Is(err, catalog.ErrProductNotFound):
		c.JSON(http.StatusUnprocessableEntity, ord.HTTPError{Error: err.Error()})
	case errors.Is(err, catalog.ErrUnavailable):
		c.JSON(http.StatusBadGateway, ord.HTTPError{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ord.HTTPError{Error: err.Error()})
	}
}

// @Summary  Create an order
// @Accept   json
// @Produce  json
// @Param    order body order.CreateOrderRequest true "order"
// @Success  201 {object} order.Order
// @Failure  400 {object} order.HTTPError
// @Failure  409 {object} order.HTTPError "insufficient stock"
// @Failure  422 {object} order.HTTPError "product not found"
// @Failure  502 {object} order.HTTPError "catalog unavailable"
// @Router   /orders [post]
func createOrderHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ord.HTTPError{Error: "invalid request: " + err.Error()})
			return
		}
		o, err := svc.Create(c.Request.Context(), c.GetHeader("Authorization"), req)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// @Summary  Update an order
// @Accept   json
// @Produce  json
// @Param    id    path string true "order id"
// @Param    order body order.UpdateOrderRequest true "fields to update; a non-empty item list replaces the stored items"
// @Success  200 {object} order.Order
// @Failure  400 {object} order.HTTPError
// @Failure  404 {object} order.HTTPError
// @Failure  409 {object} order.HTTPError "insufficient stock"
// @Failure  422 {object} order.HTTPError "product not found"
// @Failure  502 {object} order.HTTPError "catalog unavailable"
// @Router   /orders/{id} [put]
func updateOrderHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ord.HTTPError{Error: "invalid request: " + err.Error()})
			return
		}
		if req.Status != "" && !ord.ValidStatus(req.Status) {
			c.JSON(http.StatusBadRequest, ord.HTTPError{Error: "invalid status"})
			return
		}
		o, err := svc.Update(c.Request.Context(), c.GetHeader("Authorization"), c.Param("id"), req)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary  Get an order by id
// @Produce  json
// @Param    id path string true "order id"
// @Success  200 {object} order.Order
// @Failure  404 {object} order.HTTPError
// @Router   /orders/{id} [get]
func getOrderHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary  List orders
// @Produce  json
// @Success  200 {array} order.Order
// @Router   /orders [get]
func listOrdersHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.List(c.Request.Context())
		if err != nil {
			writeOrderError(c, err)
			return
		}
		if orders == nil {
			orders = []ord.Order{}
		}
		c.JSON(http.StatusOK, orders)
	}
}

// @Summary  Delete an order
// @Param    id path string true "order id"
// @Success  204
// @Failure  404 {object} order.HTTPError
// @Router   /orders/{id} [delete]
func deleteOrderHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeOrderError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
