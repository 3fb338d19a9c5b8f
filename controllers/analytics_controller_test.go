package controllers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/horizonswtc/tradebackend/models"
)

func testDatabase(t *testing.T) *mongo.Database {
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
	return db
}

func TestCollectAnalytics(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	products := db.Collection("products")
	contacts := db.Collection("contact_submissions")
	quotes := db.Collection("quote_requests")

	now := time.Now().UTC()
	docs := make([]any, 0, 7)
	for i := 1; i <= 6; i++ {
		docs = append(docs, models.Product{
			ID:         bson.NewObjectID(),
			Name:       fmt.Sprintf("Product %d", i),
			Slug:       fmt.Sprintf("product-%d", i),
			Category:   "machinery",
			SalesCount: i * 10,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	// retired product with the highest sales, must not appear in best sellers
	docs = append(docs, models.Product{
		ID:         bson.NewObjectID(),
		Name:       "Retired",
		Slug:       "retired",
		Category:   "machinery",
		SalesCount: 999,
		IsActive:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	_, err := products.InsertMany(ctx, docs)
	require.NoError(t, err)

	_, err = contacts.InsertMany(ctx, []any{
		bson.M{"name": "a", "email": "a@x.com", "message": "hi", "status": "new"},
		bson.M{"name": "b", "email": "b@x.com", "message": "hi", "status": "resolved"},
	})
	require.NoError(t, err)

	_, err = quotes.InsertMany(ctx, []any{
		bson.M{"quote_number": "QT-01/01/25-001", "quote_year": 2025},
		bson.M{"quote_number": "QT-02/01/25-002", "quote_year": 2025},
		bson.M{"quote_number": "QT-03/01/25-003", "quote_year": 2025},
	})
	require.NoError(t, err)

	summary, err := collectAnalytics(ctx, products, contacts, quotes)
	require.NoError(t, err)

	assert.Equal(t, int64(6), summary.ActiveProducts)
	assert.Equal(t, int64(2), summary.TotalContacts)
	assert.Equal(t, int64(3), summary.TotalQuotes)

	require.Len(t, summary.BestSellers, 5)
	assert.Equal(t, "Product 6", summary.BestSellers[0].Name)
	assert.Equal(t, "Product 2", summary.BestSellers[4].Name)
	for _, p := range summary.BestSellers {
		assert.True(t, p.IsActive, "inactive products are excluded from best sellers")
	}
}
