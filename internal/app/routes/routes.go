package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mberk/coursedex/internal/app/controllers"
	"github.com/mberk/coursedex/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	sessionController *controllers.SessionController,
	networkController *controllers.NetworkController,
	apiKeyMiddleware *middleware.APIKeyMiddleware,
	development bool,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// In development mode endpoints are open; in production every request
	// must carry a registered key.
	if !development {
		v1.Use(apiKeyMiddleware.RequireKey())
	}

	v1.GET("/courses", courseController.SearchCourses)
	v1.GET("/sessions", sessionController.GetSessions)
	v1.GET("/networks", networkController.GetNetworks)
}
