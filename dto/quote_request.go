package dto

import "encoding/json"

// OptionalFloat64 distinguishes a field that was absent from one that was
// explicitly null: absent leaves the stored value alone, null clears it.
type OptionalFloat64 struct {
	Set   bool
	Value *float64
}

func (o *OptionalFloat64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

type QuoteCustomerDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
	Address  string `json:"address"`
	Incoterm string `json:"incoterm"`
	Urgency  string `json:"urgency"`
	Message  string `json:"message"`
}

type QuoteLineItemDTO struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	// Subtotal is trusted when supplied; when absent (or zero) it is
	// defaulted to quantity * unit_price.
	Subtotal *float64 `json:"subtotal"`
}

type CreateQuoteRequestDTO struct {
	Customer QuoteCustomerDTO   `json:"customer"`
	Items    []QuoteLineItemDTO `json:"items"`
	Language string             `json:"language"`
}

// UpdateQuoteRequestDTO applies only the fields explicitly present in the
// request body, so every field is a pointer. QuotedPrice additionally accepts
// null to drop the admin override and fall back to the products subtotal.
type UpdateQuoteRequestDTO struct {
	Status        *string         `json:"status"`
	QuotedPrice   OptionalFloat64 `json:"quoted_price"`
	TaxPercentage *float64 `json:"tax_percentage"`
	WillShip      *bool    `json:"will_ship"`
	ShippingPrice *float64 `json:"shipping_price"`
	Notes         *string  `json:"notes"`
}
