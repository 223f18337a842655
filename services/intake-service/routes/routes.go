package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/metalstreets/contact-backend/services/intake-service/controllers"
	"github.com/metalstreets/contact-backend/services/intake-service/middleware"
)

const ServiceName = "intake-service"

func RegisterRoutes(router *gin.Engine, controller *controllers.IntakeController, adminSecret []byte) {
	// Public
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": ServiceName})
	})
	router.GET("/", controller.Get)
	router.POST("/", controller.Submit)

	// Admin only
	admin := router.Group("/admin", middleware.AdminAuth(adminSecret))
	{
		admin.GET("/submissions.csv", controller.ExportCSV)
	}
}
