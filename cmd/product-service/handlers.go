package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	prod "github.com/HuynhLeCongLap/soa-orders/internal/product"
)

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

func validPrice(s string) bool {
	d, err := decimal.NewFromString(s)
	return err == nil && !d.IsNegative()
}

// listOnlyHandler returns products with pagination only, no search.
//
//	@Summary  List products
//	@Produce  json
//	@Param    limit   query int false "page size"
//	@Param    offset  query int false "page offset"
//	@Success  200 {object} product.ListResponse
//	@Router   /products [get]
func listOnlyHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		items, err := repo.List(c.Request.Context(), prod.Query{Limit: limit, Offset: offset})
		if err != nil {
			c.JSON(http.StatusInternalServerError, prod.HTTPError{Error: err.Error()})
			return
		}
		if items == nil {
			items = []prod.Product{}
		}
		c.JSON(http.StatusOK, prod.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}

// searchHandler requires q (>= 2 chars) and searches name/description.
//
//	@Summary  Search products
//	@Produce  json
//	@Param    q query string true "search text, at least 2 characters"
//	@Success  200 {object} product.ListResponse
//	@Failure  400 {object} product.HTTPError
//	@Router   /products/search [get]
func searchHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if len(q) < 2 {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "q is required (min 2 chars)"})
			return
		}
		limit, offset := pagination(c)
		items, err := repo.List(c.Request.Context(), prod.Query{Q: q, Limit: limit, Offset: offset})
		if err != nil {
			c.JSON(http.StatusInternalServerError, prod.HTTPError{Error: err.Error()})
			return
		}
		if items == nil {
			items = []prod.Product{}
		}
		c.JSON(http.StatusOK, prod.ListResponse{Q: q, Limit: limit, Offset: offset, Items: items})
	}
}

// @Summary  Get a product by id
// @Produce  json
// @Param    id path string true "product id"
// @Success  200 {object} product.Product
// @Failure  404 {object} product.HTTPError
// @Router   /products/{id} [get]
func getProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, prod.ErrNotFound) {
			c.JSON(http.StatusNotFound, prod.HTTPError{Error: "not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, prod.HTTPError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// @Summary  Create a product
// @Accept   json
// @Produce  json
// @Param    product body product.CreateProductRequest true "product"
// @Success  201 {object} product.Product
// @Failure  400 {object} product.HTTPError
// @Router   /products [post]
func createProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prod.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "invalid json"})
			return
		}
		if req.Name == "" || req.Price == "" || req.Stock < 0 || !validPrice(req.Price) {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "name, non-negative price and stock are required"})
			return
		}
		p := &prod.Product{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			c.JSON(http.StatusInternalServerError, prod.HTTPError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// updateProductHandler replaces the whole product: every field is taken from
// the payload, so an empty description clears the stored one.
//
//	@Summary  Replace a product
//	@Accept   json
//	@Produce  json
//	@Param    id      path string true "product id"
//	@Param    product body product.UpdateProductRequest true "full product payload"
//	@Success  200 {object} product.Product
//	@Failure  400 {object} product.HTTPError
//	@Failure  404 {object} product.HTTPError
//	@Router   /products/{id} [put]
func updateProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var req prod.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "invalid json"})
			return
		}
		if req.Name == "" || req.Price == "" || req.Stock < 0 || !validPrice(req.Price) {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "name, non-negative price and stock are required"})
			return
		}

		p := &prod.Product{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
		}
		if err := repo.Update(c.Request.Context(), p); err != nil {
			if errors.Is(err, prod.ErrNotFound) {
				c.JSON(http.StatusNotFound, prod.HTTPError{Error: "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, prod.HTTPError{Error: err.Error()})
			return
		}
		out, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, prod.HTTPError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Delete a product
// @Param    id path string true "product id"
// @Success  204
// @Failure  404 {object} product.HTTPError
// @Router   /products/{id} [delete]
func deleteProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, prod.HTTPError{Error: err.Error()})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, prod.HTTPError{Error: "not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
