package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type QuoteStatus string

const (
	QuoteStatusPending    QuoteStatus = "pending"
	QuoteStatusProcessing QuoteStatus = "processing"
	QuoteStatusQuoted     QuoteStatus = "quoted"
	QuoteStatusCompleted  QuoteStatus = "completed"
	QuoteStatusCancelled  QuoteStatus = "cancelled"
)

func ValidQuoteStatus(s string) bool {
	switch QuoteStatus(s) {
	case QuoteStatusPending, QuoteStatusProcessing, QuoteStatusQuoted,
		QuoteStatusCompleted, QuoteStatusCancelled:
		return true
	}
	return false
}

// ActiveQuoteStatuses are the non-terminal states counted by the stats facade.
var ActiveQuoteStatuses = []QuoteStatus{
	QuoteStatusPending, QuoteStatusProcessing, QuoteStatusQuoted,
}

type QuoteUrgency string

const (
	UrgencyStandard  QuoteUrgency = "standard"
	UrgencyUrgent    QuoteUrgency = "urgent"
	UrgencyImmediate QuoteUrgency = "immediate"
)

type QuoteLanguage string

const (
	LanguageEnglish QuoteLanguage = "en"
	LanguageFrench  QuoteLanguage = "fr"
)

type QuoteCustomer struct {
	Name     string       `bson:"name" json:"name"`
	Email    string       `bson:"email" json:"email"`
	Phone    string       `bson:"phone,omitempty" json:"phone,omitempty"`
	Company  string       `bson:"company,omitempty" json:"company,omitempty"`
	Address  string       `bson:"address,omitempty" json:"address,omitempty"`
	Incoterm string       `bson:"incoterm" json:"incoterm"`
	Urgency  QuoteUrgency `bson:"urgency,omitempty" json:"urgency,omitempty"`
	Message  string       `bson:"message,omitempty" json:"message,omitempty"`
}

type QuoteLineItem struct {
	ProductID   string  `bson:"product_id" json:"product_id"`
	ProductName string  `bson:"product_name" json:"product_name"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	UnitPrice   float64 `bson:"unit_price" json:"unit_price"`
	Subtotal    float64 `bson:"subtotal" json:"subtotal"`
}

type QuoteRequest struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"id"`

	QuoteNumber   string `bson:"quote_number" json:"quote_number"`
	QuoteSequence int    `bson:"quote_sequence" json:"quote_sequence"`
	QuoteYear     int    `bson:"quote_year" json:"quote_year"`

	Customer QuoteCustomer   `bson:"customer" json:"customer"`
	Items    []QuoteLineItem `bson:"items" json:"items"`

	// TotalPrice is the sum of line-item subtotals at submission time.
	// It is a historical record of the original ask and is never recomputed.
	TotalPrice float64       `bson:"total_price" json:"total_price"`
	Language   QuoteLanguage `bson:"language" json:"language"`
	Status     QuoteStatus   `bson:"status" json:"status"`

	QuotedPrice   *float64 `bson:"quoted_price,omitempty" json:"quoted_price,omitempty"`
	TaxPercentage float64  `bson:"tax_percentage" json:"tax_percentage"`
	WillShip      bool     `bson:"will_ship" json:"will_ship"`
	ShippingPrice float64  `bson:"shipping_price" json:"shipping_price"`

	// FinalPrice is a cached projection: recomputed from current field
	// values before every persistence, never trusted as authoritative.
	FinalPrice float64 `bson:"final_price" json:"final_price"`

	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// TotalItems is the sum of line-item quantities, computed on read.
func (q *QuoteRequest) TotalItems() int {
	total := 0
	for _, item := range q.Items {
		total += item.Quantity
	}
	return total
}

// ProductsSubtotal is the sum of line-item subtotals, computed on read.
func (q *QuoteRequest) ProductsSubtotal() float64 {
	sum := 0.0
	for _, item := range q.Items {
		sum += item.Subtotal
	}
	return sum
}

// QuoteRequestView is the JSON projection served to the admin UI. It carries
// the derived total_items/products_subtotal fields and lifts incoterm to the
// top level, which the stored document does not.
type QuoteRequestView struct {
	QuoteRequest
	ProductsSubtotal float64 `json:"products_subtotal"`
	TotalItems       int     `json:"total_items"`
	Incoterm         string  `json:"incoterm"`
}

func (q *QuoteRequest) View() QuoteRequestView {
	return QuoteRequestView{
		QuoteRequest:     *q,
		ProductsSubtotal: q.ProductsSubtotal(),
		TotalItems:       q.TotalItems(),
		Incoterm:         q.Customer.Incoterm,
	}
}

// YearCounter is the per-year quote sequence counter. One document per
// calendar year; the counter is only ever touched through an atomic
// find-and-increment.
type YearCounter struct {
	ID      bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Year    int           `bson:"year" json:"year"`
	Counter int           `bson:"counter" json:"counter"`
}
