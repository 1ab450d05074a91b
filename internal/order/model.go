package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "PENDING"
	StatusPaid     = "PAID"
	StatusShipped  = "SHIPPED"
	StatusCanceled = "CANCELED"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusCanceled:
		return true
	}
	return false
}

// Order owns its items: an item never outlives its order, and replacing the
// item set destroys the removed items.
type Order struct {
	ID            string `json:"id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Status        string `json:"status"`
	// Total is derived from the items; it is never taken from a caller.
	// NUMERIC -> string
	Total     string    `json:"total_amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Items     []Item    `json:"items"`
}

// Item carries a snapshot of the product's name and price taken at
// enrichment time, so historical orders stay stable if the catalog changes.
type Item struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"` // NUMERIC -> string
	LineTotal   string    `json:"total_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecalcLineTotal re-derives LineTotal from UnitPrice and Quantity. An
// unparseable price counts as zero.
func (i *Item) RecalcLineTotal() {
	price, err := decimal.NewFromString(i.UnitPrice)
	if err != nil {
		price = decimal.Zero
	}
	i.LineTotal = price.Mul(decimal.NewFromInt(int64(i.Quantity))).StringFixed(2)
}

// Total folds the line totals of items; unset or unparseable line totals
// count as zero. Zero items sum to zero.
func Total(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		lt, err := decimal.NewFromString(it.LineTotal)
		if err != nil {
			continue
		}
		sum = sum.Add(lt)
	}
	return sum
}

// RecalcTotal re-derives the order total from its current item set.
func (o *Order) RecalcTotal() {
	o.Total = Total(o.Items).StringFixed(2)
}
