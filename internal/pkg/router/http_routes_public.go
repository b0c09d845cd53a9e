package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mikeskafld/dojo-web/app/controllers"
	"github.com/mikeskafld/dojo-web/internal/pkg/constants"
	"github.com/mikeskafld/dojo-web/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Marketing pages
	app.Get(constants.AboutRoute, loggedInMiddleware, controllers.HandleAbout)
	app.Get(constants.HowItWorksRoute, loggedInMiddleware, controllers.HandleHowItWorks)
	app.Get(constants.PricingRoute, loggedInMiddleware, controllers.HandlePricing)
	app.Get(constants.TermsRoute, loggedInMiddleware, controllers.HandleTerms)

	// Blog
	app.Get(constants.BlogRoute, loggedInMiddleware, controllers.HandleBlogIndex)
	app.Get(constants.BlogRoute+"/:slug", loggedInMiddleware, controllers.HandleBlogShow)

	// Public page display
	app.Get("/page/:slug", loggedInMiddleware, controllers.HandlePage)

	// Crawlers
	app.Get("/sitemap.xml", controllers.HandleSitemap)
	app.Get("/robots.txt", controllers.HandleRobots)

	// Auth
	app.Post(constants.LogoutRoute, middleware.RequireAuth, controllers.HandleAuthLogout)

	// Social OAuth
	app.Get("/auth/:provider", controllers.HandleOAuthStart)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)

	// Billing provider webhooks (no CSRF, signature-verified in controller)
	app.Post(constants.PolarWebhookRoute, controllers.HandlePolarWebhook)
}
