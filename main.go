package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/horizonswtc/tradebackend/controllers"
	"github.com/horizonswtc/tradebackend/database"
	"github.com/horizonswtc/tradebackend/middleware"
	"github.com/horizonswtc/tradebackend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}

	// seeding admin user
	ctx := context.Background()
	usersCol := database.OpenCollection("users")
	if err := utils.SeedAdminUser(ctx, usersCol); err != nil {
		log.Fatal(err)
	}

	r := gin.New()
	logoValidator := utils.NewImageValidator()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	log.Printf("Allowed origins: %v", allowedOrigins)
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		dbStatus := "connected"
		if err := database.Ping(c.Request.Context()); err != nil {
			dbStatus = "disconnected"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  dbStatus,
		})
	})

	r.POST("/auth/login", controllers.Login())
	r.POST("/auth/refresh", controllers.Refresh())
	r.POST("/auth/logout", controllers.Logout())

	r.GET("/products", controllers.GetProducts())
	r.GET("/products/:id", controllers.GetProduct())
	r.GET("/partners", controllers.GetPartners())
	r.POST("/contact", controllers.SubmitContact())

	r.POST("/quote-requests", controllers.CreateQuoteRequest())
	r.GET("/quote-requests/number/:quoteNumber", controllers.GetQuoteByNumber())
	r.GET("/quote-requests/customer/:email", controllers.GetCustomerQuotes())

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.GET("/analytics", controllers.GetAnalytics())

		admin.GET("/quote-requests", controllers.GetQuoteRequests())
		admin.GET("/quote-requests/stats", controllers.GetQuoteStats())
		admin.GET("/quote-requests/next-number", controllers.GetNextQuoteNumber())
		admin.GET("/quote-requests/:id", controllers.GetQuoteRequest())
		admin.PATCH("/quote-requests/:id", controllers.UpdateQuoteRequest())
		admin.DELETE("/quote-requests/:id", controllers.DeleteQuoteRequest())

		admin.GET("/contacts", controllers.GetContacts())
		admin.PATCH("/contacts/:id", controllers.UpdateContact())

		admin.GET("/partners", controllers.GetAllPartners())
		admin.POST("/partners", controllers.CreatePartner(logoValidator))
		admin.PATCH("/partners/:id", controllers.UpdatePartner())
		admin.DELETE("/partners/:id", controllers.DeletePartner())

		admin.POST("/products", controllers.AddProduct())
		admin.PATCH("/products/:id", controllers.UpdateProduct())
		admin.DELETE("/products/:id", controllers.DeleteProduct())

		admin.POST("/users", controllers.CreateUser())
		admin.POST("/users/me/password", controllers.ChangeMyPassword())
	}

	// Server listens on PORT (default 8080)
	r.Run()
}
