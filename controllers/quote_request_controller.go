package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/horizonswtc/tradebackend/database"
	"github.com/horizonswtc/tradebackend/dto"
	"github.com/horizonswtc/tradebackend/models"
	"github.com/horizonswtc/tradebackend/quotes"
	"github.com/horizonswtc/tradebackend/utils"
)

func quoteService() *quotes.Service {
	return quotes.NewService(
		database.OpenCollection("quote_requests"),
		database.OpenCollection("quote_counters"),
	)
}

func quoteErrorStatus(err error) int {
	switch {
	case quotes.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, quotes.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// POST /quote-requests
func CreateQuoteRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateQuoteRequestDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		quote, err := quoteService().Create(c.Request.Context(), body)
		if err != nil {
			c.JSON(quoteErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":        "Quote request submitted successfully. We will contact you within 24 hours!",
			"quote_id":       quote.ID,
			"quote_number":   quote.QuoteNumber,
			"quote_sequence": quote.QuoteSequence,
			"quote_year":     quote.QuoteYear,
			"total_items":    quote.TotalItems(),
			"total_price":    quote.TotalPrice,
		})
	}
}

// GET /admin/quote-requests?page=1&limit=10&status=pending&customer_email=a@b.com&year=2025&sort=-createdAt
func GetQuoteRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		maxLimit, defaultLimit := utils.GetDefaultQueryLimits()

		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), defaultLimit)
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > maxLimit {
			limit = defaultLimit
		}

		filter := quotes.ListFilter{
			Status:        strings.TrimSpace(c.Query("status")),
			CustomerEmail: strings.TrimSpace(c.Query("customer_email")),
			Year:          utils.ParseIntDefault(c.Query("year"), 0),
			Page:          page,
			Limit:         limit,
			Sort:          strings.TrimSpace(c.Query("sort")),
		}

		items, total, err := quoteService().List(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		views := make([]models.QuoteRequestView, 0, len(items))
		for i := range items {
			views = append(views, items[i].View())
		}

		totalPages := (total + int64(limit) - 1) / int64(limit)
		c.JSON(http.StatusOK, gin.H{
			"quotes": views,
			"pagination": gin.H{
				"current_page": page,
				"total_pages":  totalPages,
				"total_quotes": total,
				"per_page":     limit,
			},
		})
	}
}

// GET /admin/quote-requests/:id
func GetQuoteRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		quote, err := quoteService().Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(quoteErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"quote": quote.View()})
	}
}

// GET /quote-requests/number/:quoteNumber
func GetQuoteByNumber() gin.HandlerFunc {
	return func(c *gin.Context) {
		quote, err := quoteService().GetByNumber(c.Request.Context(), c.Param("quoteNumber"))
		if err != nil {
			c.JSON(quoteErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"quote": quote.View()})
	}
}

// GET /quote-requests/customer/:email
func GetCustomerQuotes() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := quoteService().ListByCustomer(c.Request.Context(), c.Param("email"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		views := make([]models.QuoteRequestView, 0, len(items))
		for i := range items {
			views = append(views, items[i].View())
		}
		c.JSON(http.StatusOK, gin.H{"quotes": views, "total": len(views)})
	}
}

// PATCH /admin/quote-requests/:id
func UpdateQuoteRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.UpdateQuoteRequestDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		quote, err := quoteService().Update(c.Request.Context(), c.Param("id"), body)
		if err != nil {
			c.JSON(quoteErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Quote updated successfully",
			"quote":   quote.View(),
		})
	}
}

// DELETE /admin/quote-requests/:id
func DeleteQuoteRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := quoteService().Delete(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(quoteErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Quote deleted successfully"})
	}
}

// GET /admin/quote-requests/stats?year=2025
func GetQuoteStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		year := utils.ParseIntDefault(c.Query("year"), 0)

		stats, err := quoteService().Stats(c.Request.Context(), year)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": stats})
	}
}

// GET /admin/quote-requests/next-number
//
// Preview only: the counter is read, not incremented, so no sequence is
// burned when no quote follows.
func GetNextQuoteNumber() gin.HandlerFunc {
	return func(c *gin.Context) {
		number, sequence, year, err := quoteService().NextNumber(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"next_quote_number": number,
			"sequence":          sequence,
			"year":              year,
		})
	}
}
