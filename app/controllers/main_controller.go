package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mikeskafld/dojo-web/app/models"
	"github.com/mikeskafld/dojo-web/app/repository"
	"github.com/mikeskafld/dojo-web/internal/pkg/constants"
	"github.com/mikeskafld/dojo-web/internal/pkg/viewmodel"
)

// HandleStart renders the landing page with the hero, feature sections and
// both lead-capture calls to action.
func HandleStart(c *fiber.Ctx) error {
	og := &viewmodel.OpenGraph{
		Title:       "Dojo - Learn directly from creators you trust",
		Description: "Structured courses from independent creators. Apply as a creator or join the learner waitlist.",
		Image:       "/img/dojo-og.png",
		URL:         constants.PublicRoute,
	}

	return renderPage(c, "home", "", og, fiber.Map{
		"Niches":        models.CreatorNiches,
		"Interests":     models.LearnerInterestTags,
		"ApplyRoute":    constants.ForCreatorsRoute,
		"WaitlistRoute": constants.ForLearnersRoute,
	})
}

// HandleSitemap serves a minimal sitemap for the static marketing routes.
func HandleSitemap(c *fiber.Ctx) error {
	domain := publicDomain()
	routes := []string{
		constants.PublicRoute,
		constants.AboutRoute,
		constants.HowItWorksRoute,
		constants.ForCreatorsRoute,
		constants.ForLearnersRoute,
		constants.PricingRoute,
		constants.TermsRoute,
		constants.BlogRoute,
	}

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	now := time.Now().Format("2006-01-02")
	for _, route := range routes {
		sb.WriteString(fmt.Sprintf("  <url><loc>%s%s</loc><lastmod>%s</lastmod></url>\n", domain, route, now))
	}

	// Published blog posts
	if posts, err := repository.GetGlobalRepositories().Blog.GetPublished(0, 500); err == nil {
		for _, post := range posts {
			sb.WriteString(fmt.Sprintf("  <url><loc>%s/blog/%s</loc></url>\n", domain, post.Slug))
		}
	}
	sb.WriteString("</urlset>\n")

	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.SendString(sb.String())
}

// HandleRobots serves robots.txt pointing crawlers at the sitemap.
func HandleRobots(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.SendString("User-agent: *\nAllow: /\nDisallow: /admin/\nDisallow: /user/\n\nSitemap: " + publicDomain() + "/sitemap.xml\n")
}
