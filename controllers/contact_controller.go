package controllers

import (
	"net/http"
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

// POST /contact
func SubmitContact() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("contact_submissions")

		var body dto.SubmitContactDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now().UTC()
		submission := models.ContactSubmission{
			ID:        bson.NewObjectID(),
			Name:      strings.TrimSpace(body.Name),
			Email:     strings.ToLower(strings.TrimSpace(body.Email)),
			Phone:     strings.TrimSpace(body.Phone),
			Message:   strings.TrimSpace(body.Message),
			Status:    models.ContactStatusNew,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := col.InsertOne(ctx, submission); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":      submission.ID,
			"message": "Thank you for contacting us. We will get back to you shortly.",
		})
	}
}

// GET /admin/contacts?page=1&limit=20&status=new
func GetContacts() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("contact_submissions")

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

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}

		opts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		contacts := make([]models.ContactSubmission, 0)
		if err := cursor.All(ctx, &contacts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		total, err := col.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"contacts": contacts,
			"page":     page,
			"limit":    limit,
			"total":    total,
		})
	}
}

// PATCH /admin/contacts/:id
func UpdateContact() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("contact_submissions")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
			return
		}

		var body dto.UpdateContactDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Status != nil {
			if !models.ValidContactStatus(*body.Status) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "invalid status value",
					"allowed": []string{"new", "contacted", "resolved"},
				})
				return
			}
			set["status"] = *body.Status
		}
		if body.Notes != nil {
			set["notes"] = strings.TrimSpace(*body.Notes)
		}

		res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
