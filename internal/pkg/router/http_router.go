package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mikeskafld/dojo-web/internal/pkg/middleware"
	"github.com/mikeskafld/dojo-web/internal/pkg/oauth"
	"github.com/mikeskafld/dojo-web/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context; this middleware
	// just passes through so routes read uniformly.
	return c.Next()
}
