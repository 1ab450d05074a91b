package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/HuynhLeCongLap/soa-orders/internal/catalog"
	"github.com/HuynhLeCongLap/soa-orders/internal/metrics"
)

var (
	// ErrEmptyOrder is returned when a create request carries no items.
	ErrEmptyOrder = errors.New("order must have at least one item")
	// ErrInsufficientStock is returned when a requested quantity exceeds the
	// catalog's stock on hand at lookup time.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Catalog is the read side of the product catalog. The credential is the
// caller's bearer token, forwarded verbatim and never inspected here.
type Catalog interface {
	GetProduct(ctx context.Context, id, credential string) (*catalog.Product, error)
}

// Service drives the create/update/delete workflow for orders. Enrichment
// runs sequentially over the requested items in caller order; the first
// failure aborts the whole request before anything durable is written.
type Service struct {
	repo    Repository
	catalog Catalog
}

func NewService(repo Repository, cat Catalog) *Service {
	return &Service{repo: repo, catalog: cat}
}

// Create validates the request, enriches every item against the catalog,
// totals them and persists the order graph as one unit. On any failure the
// store is left exactly as it was.
func (s *Service) Create(ctx context.Context, credential string, req CreateOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		metrics.OrdersTotal.WithLabelValues("empty_order").Inc()
		return nil, ErrEmptyOrder
	}

	now := time.Now().UTC()
	o := &Order{
		ID:            uuid.NewString(),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	items, err := s.enrichItems(ctx, credential, o.ID, req.Items, now)
	if err != nil {
		s.countFailure(err)
		log.WithFields(log.Fields{"order_id": o.ID, "err": err.Error()}).Warn("order create aborted")
		return nil, err
	}
	o.Items = items
	o.RecalcTotal()

	if err := s.repo.Create(ctx, o); err != nil {
		metrics.OrdersTotal.WithLabelValues("storage_error").Inc()
		return nil, fmt.Errorf("persisting order: %w", err)
	}
	metrics.OrdersTotal.WithLabelValues("created").Inc()
	return o, nil
}

// Update locates the order, overwrites customer name/email/status from the
// request (status defaults to PENDING when omitted), and, if the request
// carries items, replaces the entire stored item set with freshly enriched
// ones. No items means the stored items and total stay untouched.
func (s *Service) Update(ctx context.Context, credential, id string, req UpdateOrderRequest) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o.CustomerName = req.CustomerName
	o.CustomerEmail = req.CustomerEmail
	o.Status = req.Status
	if o.Status == "" {
		o.Status = StatusPending
	}
	o.UpdatedAt = now

	replaceItems := len(req.Items) > 0
	if replaceItems {
		items, err := s.enrichItems(ctx, credential, o.ID, req.Items, now)
		if err != nil {
			s.countFailure(err)
			log.WithFields(log.Fields{"order_id": o.ID, "err": err.Error()}).Warn("order update aborted")
			return nil, err
		}
		o.Items = items
		o.RecalcTotal()
	}

	if err := s.repo.Update(ctx, o, replaceItems); err != nil {
		metrics.OrdersTotal.WithLabelValues("storage_error").Inc()
		return nil, fmt.Errorf("persisting order: %w", err)
	}
	metrics.OrdersTotal.WithLabelValues("updated").Inc()
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.OrdersTotal.WithLabelValues("deleted").Inc()
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// enrichItems performs one catalog lookup per requested item, in the order
// supplied. Lookups are sequential and the first failure wins; nothing is
// reserved at the catalog, so the stock check is point-in-time only.
func (s *Service) enrichItems(ctx context.Context, credential, orderID string, reqs []ItemRequest, now time.Time) ([]Item, error) {
	items := make([]Item, 0, len(reqs))
	for _, req := range reqs {
		it, err := s.enrichItem(ctx, credential, orderID, req, now)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *Service) enrichItem(ctx context.Context, credential, orderID string, req ItemRequest, now time.Time) (Item, error) {
	p, err := s.catalog.GetProduct(ctx, req.ProductID, credential)
	if err != nil {
		return Item{}, err
	}
	if p.Stock < req.Quantity {
		return Item{}, fmt.Errorf("%w: product %q has %d in stock, requested %d",
			ErrInsufficientStock, p.Name, p.Stock, req.Quantity)
	}

	it := Item{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		ProductID:   req.ProductID,
		ProductName: p.Name,
		Quantity:    req.Quantity,
		UnitPrice:   p.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	it.RecalcLineTotal()
	return it, nil
}

func (s *Service) countFailure(err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		metrics.OrdersTotal.WithLabelValues("product_not_found").Inc()
	case errors.Is(err, ErrInsufficientStock):
		metrics.OrdersTotal.WithLabelValues("insufficient_stock").Inc()
	case errors.Is(err, catalog.ErrUnavailable):
		metrics.OrdersTotal.WithLabelValues("catalog_unavailable").Inc()
	}
}
