package quotes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/horizonswtc/tradebackend/models"
)

type StatusStat struct {
	Status     string  `bson:"_id" json:"status"`
	Count      int64   `bson:"count" json:"count"`
	TotalValue float64 `bson:"total_value" json:"total_value"`
}

type ShippingStat struct {
	WillShip      bool    `bson:"_id" json:"will_ship"`
	Count         int64   `bson:"count" json:"count"`
	TotalShipping float64 `bson:"total_shipping" json:"total_shipping"`
}

type YearSummary struct {
	Year        int     `bson:"_id" json:"year"`
	TotalQuotes int64   `bson:"total_quotes" json:"total_quotes"`
	TotalValue  float64 `bson:"total_value" json:"total_value"`
}

type QuoteStats struct {
	ByStatus      []StatusStat   `json:"by_status"`
	TotalQuotes   int64          `json:"total_quotes"`
	ActiveQuotes  int64          `json:"active_quotes"`
	ShippingStats []ShippingStat `json:"shipping_stats"`
	YearlySummary []YearSummary  `json:"yearly_summary"`
	CurrentYear   int            `json:"current_year"`
}

// Stats aggregates the dashboard numbers for the given year: counts and
// summed final prices per status, the active (non-terminal, unexpired) quote
// count, the shipping breakdown, and a rolling five-year summary. These are
// read-only projections; final_price is already consistent at rest.
func (s *Service) Stats(ctx context.Context, year int) (*QuoteStats, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}
	stats := &QuoteStats{CurrentYear: year}

	byStatus := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"quote_year": year}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$status",
			"count":       bson.M{"$sum": 1},
			"total_value": bson.M{"$sum": "$final_price"},
		}}},
	}
	if err := s.aggregate(ctx, byStatus, &stats.ByStatus); err != nil {
		return nil, fmt.Errorf("status stats: %w", err)
	}

	total, err := s.quotes.CountDocuments(ctx, bson.M{"quote_year": year})
	if err != nil {
		return nil, fmt.Errorf("count quotes: %w", err)
	}
	stats.TotalQuotes = total

	active, err := s.quotes.CountDocuments(ctx, bson.M{
		"quote_year": year,
		"expires_at": bson.M{"$gt": s.now().UTC()},
		"status":     bson.M{"$in": models.ActiveQuoteStatuses},
	})
	if err != nil {
		return nil, fmt.Errorf("count active quotes: %w", err)
	}
	stats.ActiveQuotes = active

	shipping := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"quote_year": year}}},
		{{Key: "$group", Value: bson.M{
			"_id":            "$will_ship",
			"count":          bson.M{"$sum": 1},
			"total_shipping": bson.M{"$sum": "$shipping_price"},
		}}},
	}
	if err := s.aggregate(ctx, shipping, &stats.ShippingStats); err != nil {
		return nil, fmt.Errorf("shipping stats: %w", err)
	}

	yearly := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":          "$quote_year",
			"total_quotes": bson.M{"$sum": 1},
			"total_value":  bson.M{"$sum": "$final_price"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": -1}}},
		{{Key: "$limit", Value: 5}},
	}
	if err := s.aggregate(ctx, yearly, &stats.YearlySummary); err != nil {
		return nil, fmt.Errorf("yearly summary: %w", err)
	}

	return stats, nil
}

func (s *Service) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cursor, err := s.quotes.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
