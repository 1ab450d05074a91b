// Package catalog is the read-only client for the product catalog service.
// The order workflow never writes to the catalog.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/HuynhLeCongLap/soa-orders/internal/metrics"
)

var (
	// ErrProductNotFound means the catalog reports no product with that id.
	ErrProductNotFound = errors.New("product not found")
	// ErrUnavailable covers transport failures, timeouts, unexpected statuses
	// and malformed or empty response bodies.
	ErrUnavailable = errors.New("catalog unavailable")
)

// Product is the catalog's view of one product at lookup time.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
}

type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && ratio >= 0.6
		},
		// A 404 is an answer from the catalog, not a transport failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrProductNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			state := float64(0)
			switch to {
			case gobreaker.StateOpen:
				state = 1
			case gobreaker.StateHalfOpen:
				state = 2
			}
			metrics.CircuitBreakerState.WithLabelValues(name).Set(state)
			log.WithFields(log.Fields{
				"circuit": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0), // a single failed lookup fails the whole order
		breaker: cb,
		baseURL: baseURL,
	}
}

// GetProduct fetches one product by id, forwarding the caller's credential
// verbatim in the Authorization header.
func (c *Client) GetProduct(ctx context.Context, id, credential string) (*Product, error) {
	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, id, credential)
	})
	metrics.CatalogRequestDuration.Observe(time.Since(start).Seconds())

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: product %s: %v", ErrUnavailable, id, err)
	}
	if err != nil {
		return nil, err
	}
	return out.(*Product), nil
}

func (c *Client) fetch(ctx context.Context, id, credential string) (*Product, error) {
	req := c.http.R().SetContext(ctx)
	if credential != "" {
		req.SetHeader("Authorization", credential)
	}
	res, err := req.Get(fmt.Sprintf("%s/products/%s", c.baseURL, id))
	if err != nil {
		return nil, fmt.Errorf("%w: product %s: %v", ErrUnavailable, id, err)
	}
	switch res.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: id %s", ErrProductNotFound, id)
	default:
		return nil, fmt.Errorf("%w: product %s: unexpected status %s", ErrUnavailable, id, res.Status())
	}

	var p Product
	if err := json.Unmarshal(res.Body(), &p); err != nil {
		return nil, fmt.Errorf("%w: product %s: decoding response: %v", ErrUnavailable, id, err)
	}
	if p.ID == "" {
		return nil, fmt.Errorf("%w: product %s: empty response body", ErrUnavailable, id)
	}
	return &p, nil
}
