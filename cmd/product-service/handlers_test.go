package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	prod "github.com/HuynhLeCongLap/soa-orders/internal/product"
)

//
// ===== IN-MEMORY STUB REPO (implements product.Repository) =====
//

type stubRepo struct {
	items     map[string]*prod.Product
	lastQuery prod.Query
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: make(map[string]*prod.Product)}
}

func (s *stubRepo) List(ctx context.Context, q prod.Query) ([]prod.Product, error) {
	s.lastQuery = q
	out := make([]prod.Product, 0, len(s.items))
	for _, v := range s.items {
		if q.Q != "" {
			if !containsFold(v.Name, q.Q) && !containsFold(v.Description, q.Q) {
				continue
			}
		}
		out = append(out, *v)
	}
	start := q.Offset
	if start > len(out) {
		return []prod.Product{}, nil
	}
	end := start + q.Limit
	if end > len(out) || q.Limit <= 0 {
		end = len(out)
	}
	return out[start:end], nil
}

func (s *stubRepo) GetByID(ctx context.Context, id string) (*prod.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, prod.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubRepo) Create(ctx context.Context, p *prod.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Name == "" || p.Price == "" || p.Stock < 0 {
		return fmt.Errorf("invalid")
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	s.items[p.ID] = &cp
	return nil
}

// Mirrors the UPDATE statement: every mutable field is written as sent,
// empty description included.
func (s *stubRepo) Update(ctx context.Context, p *prod.Product) error {
	cur, ok := s.items[p.ID]
	if !ok {
		return prod.ErrNotFound
	}
	cur.Name = p.Name
	cur.Description = p.Description
	cur.Price = p.Price
	cur.Stock = p.Stock
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

//
// ===== TEST ROUTER USING THE REAL HANDLERS =====
//

func newRouter(repo prod.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/products", listOnlyHandler(repo))
	r.GET("/products/search", searchHandler(repo))
	r.GET("/products/:id", getProductHandler(repo))
	r.POST("/products", createProductHandler(repo))
	r.PUT("/products/:id", updateProductHandler(repo))
	r.DELETE("/products/:id", deleteProductHandler(repo))
	return r
}

//
// ===== TESTS =====
//

// /products → pagination only, no search forwarded to the repo.
func TestListProducts_PaginationOnly_NoSearch(t *testing.T) {
	repo := newStubRepo()
	for i := 1; i <= 3; i++ {
		_ = repo.Create(context.Background(), &prod.Product{
			ID:          fmt.Sprintf("%d", i),
			Name:        fmt.Sprintf("Prod %d", i),
			Description: "desc",
			Price:       "10.00",
			Stock:       5,
		})
	}
	r := newRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?limit=2&offset=1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got prod.ListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("len=%d, want 2", len(got.Items))
	}
	if repo.lastQuery.Q != "" {
		t.Fatalf("listOnlyHandler must not search; Q=%q", repo.lastQuery.Q)
	}
}

// /products/search → requires q (>= 2 chars); filtered + paginated.
func TestSearchProducts_RequiresQAndFilters(t *testing.T) {
	repo := newStubRepo()
	_ = repo.Create(context.Background(), &prod.Product{ID: "a", Name: "Mouse Pro", Description: "wireless", Price: "99.90", Stock: 5})
	_ = repo.Create(context.Background(), &prod.Product{ID: "b", Name: "Keyboard", Description: "mechanical", Price: "149.90", Stock: 3})
	r := newRouter(repo)

	// missing q ⇒ 400
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products/search?limit=10&offset=0", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("want 400 for missing q, got %d", w.Code)
		}
	}

	// q too short ⇒ 400
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products/search?q=m&limit=10&offset=0", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("want 400 for short q, got %d", w.Code)
		}
	}

	// valid q ⇒ 200 + 1 result (Mouse Pro)
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products/search?q=mo&limit=10&offset=0", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		var got prod.ListResponse
		_ = json.Unmarshal(w.Body.Bytes(), &got)
		if got.Q == "" || len(got.Items) != 1 || got.Items[0].ID != "a" {
			t.Fatalf("unexpected result: q=%q items=%+v", got.Q, got.Items)
		}
		if repo.lastQuery.Q == "" {
			t.Fatalf("search must forward Q to the repo")
		}
	}
}

// /products/:id
func TestGetProduct_OK_And_NotFound(t *testing.T) {
	repo := newStubRepo()
	_ = repo.Create(context.Background(), &prod.Product{ID: "x", Name: "Headset", Price: "149.90", Stock: 7})
	r := newRouter(repo)

	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products/x", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
	}
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products/nope", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("want 404, got %d body=%s", w.Code, w.Body.String())
		}
	}
}

// POST /products
func TestCreateProduct_Valid_And_Invalid(t *testing.T) {
	repo := newStubRepo()
	r := newRouter(repo)

	valid := `{"name":"Starter Kit","description":"Basic","price":"49.90","stock":10}`
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(valid))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
	}

	// invalid: missing name/price
	invalid := `{"description":"x","stock":1}`
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(invalid))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d body=%s", w.Code, w.Body.String())
		}
	}

	// invalid: negative stock
	neg := `{"name":"Bad","price":"1.00","stock":-1}`
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(neg))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("want 400 for negative stock, got %d body=%s", w.Code, w.Body.String())
		}
	}

	// invalid: unparseable price
	bad := `{"name":"Bad","price":"abc","stock":1}`
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(bad))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("want 400 for bad price, got %d body=%s", w.Code, w.Body.String())
		}
	}
}

// PUT /products/:id — full replacement; every field is written as sent.
func TestUpdateProduct_FullReplace(t *testing.T) {
	repo := newStubRepo()
	_ = repo.Create(context.Background(), &prod.Product{ID: "p", Name: "Mouse", Description: "wired", Price: "10.00", Stock: 5})
	r := newRouter(repo)

	// omitted description is cleared, price and stock are overwritten
	up := `{"name":"Mouse 2","price":"12.50","stock":4}`
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/products/p", bytes.NewBufferString(up))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		got, _ := repo.GetByID(context.Background(), "p")
		if got.Name != "Mouse 2" || got.Description != "" || got.Price != "12.50" || got.Stock != 4 {
			t.Fatalf("full replace not honored: %+v", got)
		}
	}

	// invalid: missing name/price ⇒ 400, nothing written
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/products/p", bytes.NewBufferString(`{"stock":2}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("want 400 for missing name/price, got %d body=%s", w.Code, w.Body.String())
		}
		got, _ := repo.GetByID(context.Background(), "p")
		if got.Stock != 4 {
			t.Fatalf("rejected payload must not be applied: %+v", got)
		}
	}

	// invalid: negative stock ⇒ 400
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/products/p", bytes.NewBufferString(`{"name":"Mouse 2","price":"12.50","stock":-3}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("want 400 for negative stock, got %d body=%s", w.Code, w.Body.String())
		}
	}

	// unknown id ⇒ 404
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/products/nope", bytes.NewBufferString(up))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("want 404, got %d body=%s", w.Code, w.Body.String())
		}
	}
}

// A repo whose GetByID fails with a database error, not a missing row.
type brokenGetRepo struct {
	*stubRepo
}

func (b brokenGetRepo) GetByID(ctx context.Context, id string) (*prod.Product, error) {
	return nil, fmt.Errorf("get product: connection refused")
}

// A failing lookup is a 500; only a missing row is a 404.
func TestGetProduct_RepoError_Is500Not404(t *testing.T) {
	r := newRouter(brokenGetRepo{newStubRepo()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/x", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("want 500 for repo error, got %d body=%s", w.Code, w.Body.String())
	}
}

// DELETE /products/:id
func TestDeleteProduct_OK_And_NotFound(t *testing.T) {
	repo := newStubRepo()
	_ = repo.Create(context.Background(), &prod.Product{ID: "del", Name: "X", Price: "1.00", Stock: 1})
	r := newRouter(repo)

	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/products/del", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
	}
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/products/nope", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("want 404, got %d body=%s", w.Code, w.Body.String())
		}
	}
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}
