package controllers

import (
	"encoding/json"
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

var websitePattern = regexp.MustCompile(`^https?://.+`)

// GET /partners
//
// Public listing: active partners only, ordered by sortOrder then newest.
func GetPartners() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("partners")

		opts := options.Find().SetSort(bson.D{
			{Key: "sortOrder", Value: 1},
			{Key: "createdAt", Value: -1},
		})

		cursor, err := col.Find(ctx, bson.M{"isActive": true}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		partners := make([]models.Partner, 0)
		if err := cursor.All(ctx, &partners); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"partners": partners, "total": len(partners)})
	}
}

// GET /admin/partners — includes inactive partners.
func GetAllPartners() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("partners")

		filter := bson.M{}
		if b, err := utils.ParseBoolQuery(c.Query("isActive")); err == nil && b != nil {
			filter["isActive"] = *b
		}

		opts := options.Find().SetSort(bson.D{
			{Key: "sortOrder", Value: 1},
			{Key: "createdAt", Value: -1},
		})

		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		partners := make([]models.Partner, 0)
		if err := cursor.All(ctx, &partners); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"partners": partners, "total": len(partners)})
	}
}

// POST /admin/partners
// multipart/form-data:
//   - data: JSON string (CreatePartnerDTO)
//   - logo: image file
func CreatePartner(logoValidator *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("partners")

		dataStr := c.PostForm("data")
		if dataStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing data field"})
			return
		}

		var body dto.CreatePartnerDTO
		if err := json.Unmarshal([]byte(dataStr), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data json", "details": err.Error()})
			return
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Website = strings.TrimSpace(body.Website)
		if body.Name == "" || len(body.Name) > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "partner name is required (max 100 characters)"})
			return
		}
		if len(body.Description) > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "description cannot exceed 500 characters"})
			return
		}
		if body.Website != "" && !websitePattern.MatchString(body.Website) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "website must be a valid URL"})
			return
		}

		fh, err := c.FormFile("logo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "partner logo is required"})
			return
		}
		if _, err := logoValidator.ValidateFile(fh); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		r2, err := utils.NewR2Client(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create storage client"})
			return
		}
		logoURL, objectName, err := utils.UploadPartnerLogo(ctx, r2, fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		isActive := true
		if body.IsActive != nil {
			isActive = *body.IsActive
		}

		now := time.Now().UTC()
		partner := models.Partner{
			ID:          bson.NewObjectID(),
			Name:        body.Name,
			Logo:        logoURL,
			LogoObject:  objectName,
			Description: strings.TrimSpace(body.Description),
			Website:     body.Website,
			IsActive:    isActive,
			SortOrder:   body.SortOrder,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if _, err := col.InsertOne(ctx, partner); err != nil {
			// db insert failed, don't leave the logo orphaned
			_ = utils.DeleteR2Objects(ctx, r2, []string{objectName})
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, partner)
	}
}

// PATCH /admin/partners/:id
func UpdatePartner() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("partners")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid partner id"})
			return
		}

		var body dto.UpdatePartnerDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" || len(name) > 100 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "partner name is required (max 100 characters)"})
				return
			}
			set["name"] = name
		}
		if body.Description != nil {
			if len(*body.Description) > 500 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "description cannot exceed 500 characters"})
				return
			}
			set["description"] = strings.TrimSpace(*body.Description)
		}
		if body.Website != nil {
			website := strings.TrimSpace(*body.Website)
			if website != "" && !websitePattern.MatchString(website) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "website must be a valid URL"})
				return
			}
			set["website"] = website
		}
		if body.IsActive != nil {
			set["isActive"] = *body.IsActive
		}
		if body.SortOrder != nil {
			set["sortOrder"] = *body.SortOrder
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
			c.JSON(http.StatusNotFound, gin.H{"error": "partner not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// DELETE /admin/partners/:id
func DeletePartner() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("partners")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid partner id"})
			return
		}

		var partner models.Partner
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&partner); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "partner not found"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// best effort logo cleanup
		if partner.LogoObject != "" {
			if r2, err := utils.NewR2Client(ctx); err == nil {
				_ = utils.DeleteR2Objects(ctx, r2, []string{partner.LogoObject})
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Partner deleted successfully"})
	}
}
