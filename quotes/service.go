package quotes

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/horizonswtc/tradebackend/dto"
	"github.com/horizonswtc/tradebackend/models"
)

const quoteValidityDays = 30

// Service owns the quote request lifecycle: it validates submissions,
// orchestrates sequence allocation and price computation, and keeps the
// persisted final_price consistent with its inputs on every update.
type Service struct {
	quotes    *mongo.Collection
	allocator *SequenceAllocator
	now       func() time.Time
}

func NewService(quotesCol, countersCol *mongo.Collection) *Service {
	return &Service{
		quotes:    quotesCol,
		allocator: NewSequenceAllocator(countersCol),
		now:       time.Now,
	}
}

// Create validates the submission, allocates a quote number and persists the
// quote. Validation runs strictly before allocation, so a rejected submission
// never consumes a sequence.
func (s *Service) Create(ctx context.Context, body dto.CreateQuoteRequestDTO) (*models.QuoteRequest, error) {
	customer, err := buildCustomer(body.Customer)
	if err != nil {
		return nil, err
	}
	items, err := buildItems(body.Items)
	if err != nil {
		return nil, err
	}

	language := models.QuoteLanguage(body.Language)
	switch language {
	case "":
		language = models.LanguageEnglish
	case models.LanguageEnglish, models.LanguageFrench:
	default:
		return nil, validationErrorf("language must be en or fr")
	}

	now := s.now().UTC()
	year := now.Year()

	sequence, err := s.allocator.Allocate(ctx, year)
	if err != nil {
		return nil, err
	}

	quote := models.QuoteRequest{
		ID:            bson.NewObjectID(),
		QuoteNumber:   FormatQuoteNumber(now, sequence),
		QuoteSequence: sequence,
		QuoteYear:     year,
		Customer:      customer,
		Items:         items,
		TotalPrice:    ProductsSubtotal(items),
		Language:      language,
		Status:        models.QuoteStatusPending,
		FinalPrice:    ComputeFinalPrice(items, nil, 0, false, 0),
		ExpiresAt:     now.AddDate(0, 0, quoteValidityDays),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := s.quotes.InsertOne(ctx, quote); err != nil {
		return nil, fmt.Errorf("persist quote request: %w", err)
	}
	return &quote, nil
}

// Update applies a partial admin update and recomputes final_price from the
// merged state before persisting. The identity fields (quote_number,
// quote_sequence, quote_year), total_price and expires_at are never touched.
func (s *Service) Update(ctx context.Context, idHex string, body dto.UpdateQuoteRequestDTO) (*models.QuoteRequest, error) {
	id, err := bson.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, validationErrorf("invalid quote request id")
	}

	var quote models.QuoteRequest
	if err := s.quotes.FindOne(ctx, bson.M{"_id": id}).Decode(&quote); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load quote request: %w", err)
	}

	set := bson.M{}

	if body.Status != nil {
		if !models.ValidQuoteStatus(*body.Status) {
			return nil, validationErrorf("status must be one of pending, processing, quoted, completed, cancelled")
		}
		quote.Status = models.QuoteStatus(*body.Status)
		set["status"] = quote.Status
	}
	if body.QuotedPrice.Set {
		// null clears the override; the subtotal becomes the base again
		quote.QuotedPrice = body.QuotedPrice.Value
		set["quoted_price"] = quote.QuotedPrice
	}
	if body.TaxPercentage != nil {
		if *body.TaxPercentage < 0 || *body.TaxPercentage > 100 {
			return nil, validationErrorf("tax_percentage must be between 0 and 100")
		}
		quote.TaxPercentage = *body.TaxPercentage
		set["tax_percentage"] = quote.TaxPercentage
	}
	if body.WillShip != nil {
		quote.WillShip = *body.WillShip
		set["will_ship"] = quote.WillShip
	}
	if body.ShippingPrice != nil {
		if *body.ShippingPrice < 0 {
			return nil, validationErrorf("shipping_price cannot be negative")
		}
		quote.ShippingPrice = *body.ShippingPrice
		set["shipping_price"] = quote.ShippingPrice
	}
	if body.Notes != nil {
		quote.Notes = *body.Notes
		set["notes"] = quote.Notes
	}

	now := s.now().UTC()
	quote.FinalPrice = ComputeFinalPrice(quote.Items, quote.QuotedPrice,
		quote.TaxPercentage, quote.WillShip, quote.ShippingPrice)
	quote.UpdatedAt = now
	set["final_price"] = quote.FinalPrice
	set["updatedAt"] = now

	res, err := s.quotes.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("persist quote update: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &quote, nil
}

func (s *Service) Get(ctx context.Context, idHex string) (*models.QuoteRequest, error) {
	id, err := bson.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, validationErrorf("invalid quote request id")
	}
	var quote models.QuoteRequest
	if err := s.quotes.FindOne(ctx, bson.M{"_id": id}).Decode(&quote); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load quote request: %w", err)
	}
	return &quote, nil
}

// GetByNumber looks a quote up by its display code, for customer tracking.
func (s *Service) GetByNumber(ctx context.Context, quoteNumber string) (*models.QuoteRequest, error) {
	var quote models.QuoteRequest
	err := s.quotes.FindOne(ctx, bson.M{"quote_number": quoteNumber}).Decode(&quote)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load quote request: %w", err)
	}
	return &quote, nil
}

// ListByCustomer returns all of a customer's quotes, newest first.
func (s *Service) ListByCustomer(ctx context.Context, email string) ([]models.QuoteRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.quotes.Find(ctx, bson.M{"customer.email": strings.ToLower(strings.TrimSpace(email))}, opts)
	if err != nil {
		return nil, fmt.Errorf("list customer quotes: %w", err)
	}
	defer cursor.Close(ctx)

	quotes := make([]models.QuoteRequest, 0)
	if err := cursor.All(ctx, &quotes); err != nil {
		return nil, fmt.Errorf("list customer quotes: %w", err)
	}
	return quotes, nil
}

// ListFilter selects and pages the quote collection.
type ListFilter struct {
	Status        string
	CustomerEmail string
	Year          int
	Page          int
	Limit         int
	Sort          string
}

// List returns a page of quotes plus the total count matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]models.QuoteRequest, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CustomerEmail != "" {
		escaped := regexp.QuoteMeta(f.CustomerEmail)
		filter["customer.email"] = bson.M{"$regex": escaped, "$options": "i"}
	}
	if f.Year != 0 {
		filter["quote_year"] = f.Year
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	skip := int64((f.Page - 1) * f.Limit)

	opts := options.Find().
		SetSkip(skip).
		SetLimit(int64(f.Limit)).
		SetSort(parseSort(f.Sort))

	cursor, err := s.quotes.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}
	defer cursor.Close(ctx)

	quotes := make([]models.QuoteRequest, 0)
	if err := cursor.All(ctx, &quotes); err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}

	total, err := s.quotes.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}
	return quotes, total, nil
}

// parseSort maps a "-createdAt" style sort param onto a whitelisted field,
// defaulting to newest first.
func parseSort(sort string) bson.D {
	field := strings.TrimPrefix(sort, "-")
	order := 1
	if strings.HasPrefix(sort, "-") {
		order = -1
	}
	switch field {
	case "createdAt", "final_price", "total_price", "quote_sequence", "expires_at":
		return bson.D{{Key: field, Value: order}}
	}
	return bson.D{{Key: "createdAt", Value: -1}}
}

// NextNumber previews the quote number the next submission would receive,
// without consuming a sequence.
func (s *Service) NextNumber(ctx context.Context) (quoteNumber string, sequence, year int, err error) {
	now := s.now().UTC()
	year = now.Year()
	sequence, err = s.allocator.Peek(ctx, year)
	if err != nil {
		return "", 0, 0, err
	}
	return FormatQuoteNumber(now, sequence), sequence, year, nil
}

// Delete removes a quote outright. Sequences are never reused: the counter is
// untouched.
func (s *Service) Delete(ctx context.Context, idHex string) error {
	id, err := bson.ObjectIDFromHex(idHex)
	if err != nil {
		return validationErrorf("invalid quote request id")
	}
	res, err := s.quotes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete quote request: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func buildCustomer(c dto.QuoteCustomerDTO) (models.QuoteCustomer, error) {
	name := strings.TrimSpace(c.Name)
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if name == "" || email == "" {
		return models.QuoteCustomer{}, validationErrorf("customer name and email are required")
	}
	incoterm := strings.TrimSpace(c.Incoterm)
	if incoterm == "" {
		return models.QuoteCustomer{}, validationErrorf("incoterm is required")
	}

	urgency := models.QuoteUrgency(c.Urgency)
	switch urgency {
	case "", models.UrgencyStandard, models.UrgencyUrgent, models.UrgencyImmediate:
	default:
		return models.QuoteCustomer{}, validationErrorf("urgency must be standard, urgent or immediate")
	}

	return models.QuoteCustomer{
		Name:     name,
		Email:    email,
		Phone:    strings.TrimSpace(c.Phone),
		Company:  strings.TrimSpace(c.Company),
		Address:  strings.TrimSpace(c.Address),
		Incoterm: incoterm,
		Urgency:  urgency,
		Message:  strings.TrimSpace(c.Message),
	}, nil
}

func buildItems(in []dto.QuoteLineItemDTO) ([]models.QuoteLineItem, error) {
	if len(in) == 0 {
		return nil, validationErrorf("at least one product item is required")
	}

	items := make([]models.QuoteLineItem, 0, len(in))
	for _, item := range in {
		if strings.TrimSpace(item.ProductID) == "" || strings.TrimSpace(item.ProductName) == "" {
			return nil, validationErrorf("each item must have product_id and product_name")
		}
		if item.Quantity <= 0 || item.UnitPrice < 0 {
			return nil, validationErrorf("invalid quantity or unit price")
		}

		subtotal := float64(item.Quantity) * item.UnitPrice
		if item.Subtotal != nil && *item.Subtotal > 0 {
			// Caller-supplied subtotals are trusted, not recomputed.
			subtotal = *item.Subtotal
		}
		if subtotal < 0 {
			return nil, validationErrorf("subtotal cannot be negative")
		}

		items = append(items, models.QuoteLineItem{
			ProductID:   strings.TrimSpace(item.ProductID),
			ProductName: strings.TrimSpace(item.ProductName),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    subtotal,
		})
	}
	return items, nil
}
