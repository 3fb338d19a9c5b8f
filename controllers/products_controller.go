package controllers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/horizonswtc/tradebackend/database"
	"github.com/horizonswtc/tradebackend/dto"
	"github.com/horizonswtc/tradebackend/models"
	"github.com/horizonswtc/tradebackend/utils"
)

// GET /products?category=...&q=...&featured=true&page=1&limit=20&sort=price_asc
func GetProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("products")

		maxLimit, defaultLimit := utils.GetDefaultQueryLimits()
		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), defaultLimit)
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > maxLimit {
			limit = defaultLimit
		}
		skip := int64((page - 1) * limit)

		sortDoc := bson.D{{Key: "createdAt", Value: -1}}
		switch strings.TrimSpace(c.Query("sort")) {
		case "price_asc":
			sortDoc = bson.D{{Key: "price", Value: 1}}
		case "price_desc":
			sortDoc = bson.D{{Key: "price", Value: -1}}
		case "name":
			sortDoc = bson.D{{Key: "name", Value: 1}}
		}

		filter := bson.M{"isActive": true}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = category
		}
		if b, err := utils.ParseBoolQuery(c.Query("featured")); err == nil && b != nil {
			filter["isFeatured"] = *b
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			escaped := regexp.QuoteMeta(q)
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": escaped, "$options": "i"}},
				{"description": bson.M{"$regex": escaped, "$options": "i"}},
				{"category": bson.M{"$regex": escaped, "$options": "i"}},
			}
		}

		opts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(sortDoc)

		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		total, err := col.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"page":     page,
			"limit":    limit,
			"total":    total,
		})
	}
}

// GET /products/:id
func GetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("products")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		var product models.Product
		if err := col.FindOne(ctx, bson.M{"_id": id, "isActive": true}).Decode(&product); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}

// POST /admin/products
func AddProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("products")

		var body dto.CreateProductDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now().UTC()
		product := models.Product{
			ID:             bson.NewObjectID(),
			Name:           strings.TrimSpace(body.Name),
			Slug:           utils.GenerateSlug(body.Name),
			Description:    strings.TrimSpace(body.Description),
			Category:       strings.TrimSpace(body.Category),
			Price:          body.Price,
			ImageURL:       strings.TrimSpace(body.ImageURL),
			Specifications: body.Specifications,
			IsFeatured:     body.IsFeatured,
			StockQuantity:  body.StockQuantity,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if _, err := col.InsertOne(ctx, product); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "slug already exists", "field": "slug"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"product": product,
			"message": "Product created successfully",
		})
	}
}

// PATCH /admin/products/:id
func UpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("products")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		var body dto.UpdateProductDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{}
		if body.Name != nil {
			set["name"] = strings.TrimSpace(*body.Name)
			set["slug"] = utils.GenerateSlug(*body.Name)
		}
		if body.Description != nil {
			set["description"] = strings.TrimSpace(*body.Description)
		}
		if body.Category != nil {
			set["category"] = strings.TrimSpace(*body.Category)
		}
		if body.Price != nil {
			if *body.Price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price cannot be negative"})
				return
			}
			set["price"] = *body.Price
		}
		if body.ImageURL != nil {
			set["imageUrl"] = strings.TrimSpace(*body.ImageURL)
		}
		if body.Specifications != nil {
			set["specifications"] = *body.Specifications
		}
		if body.IsFeatured != nil {
			set["isFeatured"] = *body.IsFeatured
		}
		if body.StockQuantity != nil {
			if *body.StockQuantity < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stock quantity cannot be negative"})
				return
			}
			set["stockQuantity"] = *body.StockQuantity
		}

		if len(set) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no updates provided"})
			return
		}
		set["updatedAt"] = time.Now().UTC()

		res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
	}
}

// DELETE /admin/products/:id — soft delete.
func DeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("products")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		res, err := col.UpdateByID(ctx, id, bson.M{
			"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
