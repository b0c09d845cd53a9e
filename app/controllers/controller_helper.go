package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/mikeskafld/dojo-web/internal/pkg/env"
	"github.com/mikeskafld/dojo-web/internal/pkg/usercontext"
	"github.com/mikeskafld/dojo-web/internal/pkg/viewmodel"
)

func isLoggedIn(c *fiber.Ctx) bool {
	var fromProtected bool
	if protectedValue := c.Locals(usercontext.KeyFromProtected); protectedValue != nil {
		fromProtected = protectedValue.(bool)
	}

	return fromProtected
}

// renderPage renders a view inside the main layout with the shared
// page context (session state, flash message, OpenGraph tags) filled in.
func renderPage(c *fiber.Ctx, view string, title string, og *viewmodel.OpenGraph, data fiber.Map) error {
	userCtx := usercontext.GetUserContext(c)

	if og == nil {
		og = &viewmodel.OpenGraph{
			Title:       "Dojo" + title,
			Description: "Learn directly from creators you trust.",
			Image:       "/img/dojo-og.png",
			URL:         c.Path(),
		}
	}

	csrfToken, _ := c.Locals("csrf").(string)

	bind := fiber.Map{
		"Title":          "Dojo" + title,
		"CSRFToken":      csrfToken,
		"CaptchaSiteKey": env.GetEnv("HCAPTCHA_SITE_KEY", ""),
		"IsLoggedIn":     userCtx.IsLoggedIn,
		"IsAdmin":        userCtx.IsAdmin,
		"Username":       userCtx.Username,
		"Msg":            flash.Get(c),
		"OGTitle":        og.Title,
		"OGDescription":  og.Description,
		"OGImage":        og.Image,
		"OGURL":          og.URL,
		"Domain":         publicDomain(),
	}
	for k, v := range data {
		bind[k] = v
	}

	return c.Render(view, bind, "layouts/main")
}

func publicDomain() string {
	return strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000"), "/")
}

// firstHeaderValue returns the first non-empty value among the given headers.
func firstHeaderValue(c *fiber.Ctx, headers ...string) string {
	for _, h := range headers {
		if v := strings.TrimSpace(c.Get(h)); v != "" {
			return v
		}
	}
	return ""
}
