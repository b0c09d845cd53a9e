package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/mikeskafld/dojo-web/app/controllers"
	"github.com/mikeskafld/dojo-web/internal/pkg/constants"
	"github.com/mikeskafld/dojo-web/internal/pkg/env"
	"github.com/mikeskafld/dojo-web/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/") || strings.HasPrefix(c.Path(), "/webhooks/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get(constants.PublicRoute, loggedInMiddleware, controllers.HandleStart)

	// Lead capture
	group.Get(constants.ForCreatorsRoute, loggedInMiddleware, controllers.HandleForCreators)
	group.Post(constants.ForCreatorsRoute, loggedInMiddleware, controllers.HandleCreatorApplicationSubmit)
	group.Get(constants.ForLearnersRoute, loggedInMiddleware, controllers.HandleForLearners)
	group.Post(constants.ForLearnersRoute, loggedInMiddleware, controllers.HandleLearnerWaitlistSubmit)

	// Auth
	group.Get(constants.LoginRoute, loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post(constants.LoginRoute, loggedInMiddleware, controllers.HandleAuthLogin)

	// Account
	group.Get(constants.UserBillingRoute, middleware.RequireAuth, controllers.HandleUserBilling)
}
