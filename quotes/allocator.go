package quotes

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/horizonswtc/tradebackend/models"
)

// SequenceAllocator hands out unique, monotonically increasing quote
// sequences per calendar year, backed by the quote_counters collection.
type SequenceAllocator struct {
	counters *mongo.Collection
}

func NewSequenceAllocator(counters *mongo.Collection) *SequenceAllocator {
	return &SequenceAllocator{counters: counters}
}

// Allocate reserves the next sequence for the given year. The
// read-increment-write is a single FindOneAndUpdate with $inc and upsert, so
// concurrent submissions in the same year serialize inside the server and can
// never observe the same value. The counter for a new year is created
// implicitly at 1.
func (a *SequenceAllocator) Allocate(ctx context.Context, year int) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.YearCounter
	err := a.counters.FindOneAndUpdate(ctx,
		bson.M{"year": year},
		bson.M{"$inc": bson.M{"counter": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate quote sequence for %d: %w", year, err)
	}
	return counter.Counter, nil
}

// Peek returns the sequence the next allocation for the given year would
// receive, without consuming it. The value is indicative only: a concurrent
// submission may claim it first.
func (a *SequenceAllocator) Peek(ctx context.Context, year int) (int, error) {
	var counter models.YearCounter
	err := a.counters.FindOne(ctx, bson.M{"year": year}).Decode(&counter)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("peek quote sequence for %d: %w", year, err)
	}
	return counter.Counter + 1, nil
}
