package main

import (
	"fmt"
	"log"
	"os"

	"homeserve-backend/config"
	"homeserve-backend/models"
	"homeserve-backend/routes"
	"homeserve-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Provider{},
		&models.Service{},
		&models.Booking{},
		&models.Payment{},
		&models.ProviderEarnings{},
		&models.Review{},
	)
}

func main() {
	// Optional scheduled repair of bookings missing payment/earnings rows
	if schedule := os.Getenv("RECONCILE_SCHEDULE"); schedule != "" {
		reconciler := services.NewReconciliationService(config.DB)
		if err := reconciler.StartScheduler(schedule); err != nil {
			log.Printf("Failed to start reconciliation scheduler: %v", err)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
