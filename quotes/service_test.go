package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/horizonswtc/tradebackend/dto"
	"github.com/horizonswtc/tradebackend/models"
)

func quotedPrice(v float64) dto.OptionalFloat64 {
	return dto.OptionalFloat64{Set: true, Value: &v}
}

func validCreateBody() dto.CreateQuoteRequestDTO {
	return dto.CreateQuoteRequestDTO{
		Customer: dto.QuoteCustomerDTO{
			Name:     "Jane Buyer",
			Email:    "Jane@Example.com",
			Incoterm: "FOB",
			Urgency:  "urgent",
		},
		Items: []dto.QuoteLineItemDTO{
			{ProductID: "p1", ProductName: "Widget", Quantity: 10, UnitPrice: 5.00},
			{ProductID: "p2", ProductName: "Gadget", Quantity: 2, UnitPrice: 25.00},
		},
	}
}

func TestBuildCustomerValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.QuoteCustomerDTO)
	}{
		{"missing name", func(c *dto.QuoteCustomerDTO) { c.Name = "  " }},
		{"missing email", func(c *dto.QuoteCustomerDTO) { c.Email = "" }},
		{"missing incoterm", func(c *dto.QuoteCustomerDTO) { c.Incoterm = "" }},
		{"bad urgency", func(c *dto.QuoteCustomerDTO) { c.Urgency = "yesterday" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validCreateBody().Customer
			tc.mutate(&body)
			_, err := buildCustomer(body)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestBuildCustomerNormalizes(t *testing.T) {
	customer, err := buildCustomer(validCreateBody().Customer)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", customer.Email)
	assert.Equal(t, models.UrgencyUrgent, customer.Urgency)
}

func TestBuildItemsValidation(t *testing.T) {
	cases := []struct {
		name  string
		items []dto.QuoteLineItemDTO
	}{
		{"empty items", nil},
		{"zero quantity", []dto.QuoteLineItemDTO{
			{ProductID: "p1", ProductName: "Widget", Quantity: 0, UnitPrice: 5},
		}},
		{"negative quantity", []dto.QuoteLineItemDTO{
			{ProductID: "p1", ProductName: "Widget", Quantity: -2, UnitPrice: 5},
		}},
		{"negative unit price", []dto.QuoteLineItemDTO{
			{ProductID: "p1", ProductName: "Widget", Quantity: 1, UnitPrice: -0.01},
		}},
		{"missing product name", []dto.QuoteLineItemDTO{
			{ProductID: "p1", Quantity: 1, UnitPrice: 5},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildItems(tc.items)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestBuildItemsSubtotals(t *testing.T) {
	supplied := 45.00
	items, err := buildItems([]dto.QuoteLineItemDTO{
		{ProductID: "p1", ProductName: "Widget", Quantity: 10, UnitPrice: 5.00},
		{ProductID: "p2", ProductName: "Gadget", Quantity: 2, UnitPrice: 25.00, Subtotal: &supplied},
	})
	require.NoError(t, err)

	// absent subtotal defaults to quantity * unit_price
	assert.Equal(t, 50.00, items[0].Subtotal)
	// supplied subtotal is trusted, not recomputed
	assert.Equal(t, 45.00, items[1].Subtotal)
}

func TestUpdateBodyDistinguishesNullFromAbsent(t *testing.T) {
	var absent dto.UpdateQuoteRequestDTO
	require.NoError(t, json.Unmarshal([]byte(`{"notes":"x"}`), &absent))
	assert.False(t, absent.QuotedPrice.Set)

	var cleared dto.UpdateQuoteRequestDTO
	require.NoError(t, json.Unmarshal([]byte(`{"quoted_price":null}`), &cleared))
	assert.True(t, cleared.QuotedPrice.Set)
	assert.Nil(t, cleared.QuotedPrice.Value)

	var set dto.UpdateQuoteRequestDTO
	require.NoError(t, json.Unmarshal([]byte(`{"quoted_price":90}`), &set))
	assert.True(t, set.QuotedPrice.Set)
	require.NotNil(t, set.QuotedPrice.Value)
	assert.Equal(t, 90.00, *set.QuotedPrice.Value)
}

// ---------------------------------------------------------------------------
// Integration tests below need a running MongoDB; set MONGO_TEST_URI to run
// them, e.g. MONGO_TEST_URI=mongodb://localhost:27017 go test ./quotes/...
// ---------------------------------------------------------------------------

func testService(t *testing.T) *Service {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database(fmt.Sprintf("tradebackend_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() { _ = db.Drop(context.Background()) })

	return NewService(db.Collection("quote_requests"), db.Collection("quote_counters"))
}

func counterValue(t *testing.T, svc *Service, year int) int {
	t.Helper()
	var counter models.YearCounter
	err := svc.allocator.counters.FindOne(context.Background(), bson.M{"year": year}).Decode(&counter)
	if err == mongo.ErrNoDocuments {
		return 0
	}
	require.NoError(t, err)
	return counter.Counter
}

func TestAllocateConcurrentSubmissions(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	year := 2025

	const workers = 25
	sequences := make(chan int, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := svc.allocator.Allocate(ctx, year)
			assert.NoError(t, err)
			sequences <- seq
		}()
	}
	wg.Wait()
	close(sequences)

	seen := make(map[int]bool, workers)
	for seq := range sequences {
		assert.False(t, seen[seq], "sequence %d allocated twice", seq)
		seen[seq] = true
	}
	// exactly one sequence consumed per allocation, no gaps
	for i := 1; i <= workers; i++ {
		assert.True(t, seen[i], "sequence %d missing", i)
	}
	assert.Equal(t, workers, counterValue(t, svc, year))
}

func TestAllocateIndependentYears(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	seq25, err := svc.allocator.Allocate(ctx, 2025)
	require.NoError(t, err)
	seq26, err := svc.allocator.Allocate(ctx, 2026)
	require.NoError(t, err)

	assert.Equal(t, 1, seq25)
	assert.Equal(t, 1, seq26)
}

func TestPeekDoesNotConsumeSequence(t *testing.T) {
	svc := testService(t)
	svc.now = func() time.Time { return time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	number, seq, year, err := svc.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
	assert.Equal(t, 2025, year)
	assert.Equal(t, "QT-07/03/25-001", number)

	// peeking twice returns the same value and leaves no counter behind
	_, seq2, _, err := svc.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, seq2)
	assert.Equal(t, 0, counterValue(t, svc, 2025))

	quote, err := svc.Create(ctx, validCreateBody())
	require.NoError(t, err)
	assert.Equal(t, 1, quote.QuoteSequence)

	_, seq3, _, err := svc.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, seq3)
	assert.Equal(t, 1, counterValue(t, svc, 2025))
}

func TestCreateQuote(t *testing.T) {
	svc := testService(t)
	svc.now = func() time.Time { return time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	quote, err := svc.Create(ctx, validCreateBody())
	require.NoError(t, err)

	assert.Equal(t, "QT-07/03/25-001", quote.QuoteNumber)
	assert.Equal(t, 1, quote.QuoteSequence)
	assert.Equal(t, 2025, quote.QuoteYear)
	assert.Equal(t, models.QuoteStatusPending, quote.Status)
	assert.Equal(t, models.LanguageEnglish, quote.Language)
	assert.Equal(t, 100.00, quote.TotalPrice)
	assert.Equal(t, 100.00, quote.FinalPrice)
	assert.Equal(t, 12, quote.TotalItems())
	assert.Equal(t, quote.CreatedAt.AddDate(0, 0, 30), quote.ExpiresAt)

	_, err = svc.Create(ctx, validCreateBody())
	require.NoError(t, err)
	third, err := svc.Create(ctx, validCreateBody())
	require.NoError(t, err)
	assert.Equal(t, "QT-07/03/25-003", third.QuoteNumber)

	stored, err := svc.Get(ctx, quote.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, quote.QuoteNumber, stored.QuoteNumber)
	assert.Equal(t, "jane@example.com", stored.Customer.Email)
}

func TestCreateRejectedLeavesCounterUntouched(t *testing.T) {
	svc := testService(t)
	svc.now = func() time.Time { return time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreateBody())
	require.NoError(t, err)
	require.Equal(t, 1, counterValue(t, svc, 2025))

	rejected := validCreateBody()
	rejected.Items = nil
	_, err = svc.Create(ctx, rejected)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, 1, counterValue(t, svc, 2025), "rejected submission must not burn a sequence")

	rejected = validCreateBody()
	rejected.Items[0].Quantity = 0
	_, err = svc.Create(ctx, rejected)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, 1, counterValue(t, svc, 2025))
}

func TestUpdateRecomputesFinalPrice(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	quote, err := svc.Create(ctx, validCreateBody())
	require.NoError(t, err)

	tax := 5.0
	ship := false
	updated, err := svc.Update(ctx, quote.ID.Hex(), dto.UpdateQuoteRequestDTO{
		QuotedPrice:   quotedPrice(90.00),
		TaxPercentage: &tax,
		WillShip:      &ship,
	})
	require.NoError(t, err)
	assert.Equal(t, 94.50, updated.FinalPrice)
	assert.Equal(t, 100.00, updated.TotalPrice, "total_price is a historical record")

	shipOn := true
	shipPrice := 20.0
	taxTen := 10.0
	updated, err = svc.Update(ctx, quote.ID.Hex(), dto.UpdateQuoteRequestDTO{
		QuotedPrice:   quotedPrice(quote.TotalPrice),
		TaxPercentage: &taxTen,
		WillShip:      &shipOn,
		ShippingPrice: &shipPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, 130.00, updated.FinalPrice)
}

func TestUpdateClearsQuotedPrice(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	quote, err := svc.Create(ctx, validCreateBody())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, quote.ID.Hex(), dto.UpdateQuoteRequestDTO{
		QuotedPrice: quotedPrice(90.00),
	})
	require.NoError(t, err)
	assert.Equal(t, 90.00, updated.FinalPrice)

	// explicit null drops the override, final price reverts to the subtotal
	updated, err = svc.Update(ctx, quote.ID.Hex(), dto.UpdateQuoteRequestDTO{
		QuotedPrice: dto.OptionalFloat64{Set: true},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.QuotedPrice)
	assert.Equal(t, 100.00, updated.FinalPrice)

	stored, err := svc.Get(ctx, quote.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, stored.QuotedPrice)
	assert.Equal(t, 100.00, stored.FinalPrice)
}

func TestUpdateNotesOnlyKeepsIdentityFields(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	quote, err := svc.Create(ctx, validCreateBody())
	require.NoError(t, err)

	notes := "spoke to the customer, waiting on freight quote"
	_, err = svc.Update(ctx, quote.ID.Hex(), dto.UpdateQuoteRequestDTO{Notes: &notes})
	require.NoError(t, err)

	stored, err := svc.Get(ctx, quote.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, notes, stored.Notes)
	assert.Equal(t, quote.QuoteNumber, stored.QuoteNumber)
	assert.Equal(t, quote.QuoteSequence, stored.QuoteSequence)
	assert.Equal(t, quote.QuoteYear, stored.QuoteYear)
	assert.Equal(t, quote.TotalPrice, stored.TotalPrice)
	assert.Equal(t, quote.FinalPrice, stored.FinalPrice)
	assert.WithinDuration(t, quote.ExpiresAt, stored.ExpiresAt, time.Millisecond)
}

func TestUpdateValidation(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	quote, err := svc.Create(ctx, validCreateBody())
	require.NoError(t, err)

	badStatus := "approved"
	_, err = svc.Update(ctx, quote.ID.Hex(), dto.UpdateQuoteRequestDTO{Status: &badStatus})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	badTax := 101.0
	_, err = svc.Update(ctx, quote.ID.Hex(), dto.UpdateQuoteRequestDTO{TaxPercentage: &badTax})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// arbitrary status jumps are permitted, only enum membership is checked
	completed := string(models.QuoteStatusCompleted)
	pending := string(models.QuoteStatusPending)
	_, err = svc.Update(ctx, quote.ID.Hex(), dto.UpdateQuoteRequestDTO{Status: &completed})
	require.NoError(t, err)
	_, err = svc.Update(ctx, quote.ID.Hex(), dto.UpdateQuoteRequestDTO{Status: &pending})
	require.NoError(t, err)

	notes := "x"
	_, err = svc.Update(ctx, bson.NewObjectID().Hex(), dto.UpdateQuoteRequestDTO{Notes: &notes})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndStats(t *testing.T) {
	svc := testService(t)
	svc.now = func() time.Time { return time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreateBody())
	require.NoError(t, err)

	other := validCreateBody()
	other.Customer.Email = "buyer@other.org"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	cancelled := string(models.QuoteStatusCancelled)
	_, err = svc.Update(ctx, first.ID.Hex(), dto.UpdateQuoteRequestDTO{Status: &cancelled})
	require.NoError(t, err)

	items, total, err := svc.List(ctx, ListFilter{Year: 2025, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	items, total, err = svc.List(ctx, ListFilter{CustomerEmail: "OTHER.ORG", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "buyer@other.org", items[0].Customer.Email)

	items, total, err = svc.List(ctx, ListFilter{Status: string(models.QuoteStatusCancelled), Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	stats, err := svc.Stats(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalQuotes)
	assert.Equal(t, int64(1), stats.ActiveQuotes, "cancelled quote is not active")
	assert.Equal(t, 2025, stats.CurrentYear)

	byStatus := make(map[string]StatusStat, len(stats.ByStatus))
	for _, s := range stats.ByStatus {
		byStatus[s.Status] = s
	}
	assert.Equal(t, int64(1), byStatus["pending"].Count)
	assert.Equal(t, int64(1), byStatus["cancelled"].Count)

	require.NotEmpty(t, stats.YearlySummary)
	assert.Equal(t, 2025, stats.YearlySummary[0].Year)
	assert.Equal(t, int64(2), stats.YearlySummary[0].TotalQuotes)
}

func TestDeleteQuote(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	quote, err := svc.Create(ctx, validCreateBody())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, quote.ID.Hex()))
	_, err = svc.Get(ctx, quote.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, quote.ID.Hex()), ErrNotFound)
}
