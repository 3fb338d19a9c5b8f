package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/horizonswtc/tradebackend/database"
	"github.com/horizonswtc/tradebackend/models"
)

// analyticsSummary is the admin dashboard payload: headline counts plus the
// best-selling active products.
type analyticsSummary struct {
	ActiveProducts int64            `json:"active_products"`
	TotalContacts  int64            `json:"total_contacts"`
	TotalQuotes    int64            `json:"total_quotes"`
	BestSellers    []models.Product `json:"best_sellers"`
}

const bestSellerCount = 5

func collectAnalytics(ctx context.Context, products, contacts, quotes *mongo.Collection) (*analyticsSummary, error) {
	activeProducts, err := products.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}

	totalContacts, err := contacts.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	totalQuotes, err := quotes.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "salesCount", Value: -1}}).
		SetLimit(bestSellerCount)
	cursor, err := products.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bestSellers := make([]models.Product, 0, bestSellerCount)
	if err := cursor.All(ctx, &bestSellers); err != nil {
		return nil, err
	}

	return &analyticsSummary{
		ActiveProducts: activeProducts,
		TotalContacts:  totalContacts,
		TotalQuotes:    totalQuotes,
		BestSellers:    bestSellers,
	}, nil
}

// GET /admin/analytics
func GetAnalytics() gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := collectAnalytics(c.Request.Context(),
			database.OpenCollection("products"),
			database.OpenCollection("contact_submissions"),
			database.OpenCollection("quote_requests"),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"analytics": summary})
	}
}
