package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mikeskafld/dojo-web/app/controllers"
	"github.com/mikeskafld/dojo-web/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin)

	// Lead management
	adminGroup.Get("/leads", controllers.HandleAdminLeads)
	adminGroup.Post("/leads/export", controllers.HandleAdminLeadsExport)
}
