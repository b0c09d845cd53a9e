package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/mikeskafld/dojo-web/app/models"
	"github.com/mikeskafld/dojo-web/app/repository"
	"github.com/mikeskafld/dojo-web/internal/pkg/billing"
	"github.com/mikeskafld/dojo-web/internal/pkg/hcaptcha"
	"github.com/mikeskafld/dojo-web/internal/pkg/viewmodel"
)

// HandleAbout renders the about page.
func HandleAbout(c *fiber.Ctx) error {
	return renderPage(c, "about", " | About", nil, fiber.Map{})
}

// HandleHowItWorks renders the product walkthrough page.
func HandleHowItWorks(c *fiber.Ctx) error {
	return renderPage(c, "how_it_works", " | How it works", nil, fiber.Map{})
}

// HandleForCreators renders the creator pitch page with the application form.
func HandleForCreators(c *fiber.Ctx) error {
	return renderPage(c, "for_creators", " | For Creators", nil, fiber.Map{
		"Niches":         models.CreatorNiches,
		"AudienceSizes":  models.AudienceSizeBuckets,
		"CaptchaEnabled": hcaptcha.Enabled(),
	})
}

// HandleForLearners renders the learner pitch page with the waitlist form.
func HandleForLearners(c *fiber.Ctx) error {
	return renderPage(c, "for_learners", " | For Learners", nil, fiber.Map{
		"Interests":      models.LearnerInterestTags,
		"CaptchaEnabled": hcaptcha.Enabled(),
	})
}

// HandlePricing renders the pricing page. When a Polar access token is
// configured the live product catalog is shown; otherwise static copy.
func HandlePricing(c *fiber.Ctx) error {
	var products []billing.PolarProduct

	client := billing.NewPolarClientFromEnv()
	if client.IsConfigured() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var err error
		products, err = client.ListProducts(ctx)
		if err != nil {
			log.Warnf("[Pricing] product listing failed: %v", err)
			products = nil
		}
	}

	return renderPage(c, "pricing", " | Pricing", nil, fiber.Map{
		"Products":    products,
		"HasProducts": len(products) > 0,
	})
}

// HandleTerms renders the terms of service. An editable DB page with slug
// "terms" wins over the baked-in copy.
func HandleTerms(c *fiber.Ctx) error {
	page, err := repository.GetGlobalRepositories().Page.GetBySlug("terms")
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorf("[Pages] terms lookup failed: %v", err)
		}
		return renderPage(c, "terms", " | Terms of Service", nil, fiber.Map{})
	}

	return renderPage(c, "page", " | "+page.Title, nil, fiber.Map{
		"PageTitle":   page.Title,
		"PageContent": page.Content,
	})
}

// HandlePage renders an editable CMS page by slug.
func HandlePage(c *fiber.Ctx) error {
	slug := c.Params("slug")
	page, err := repository.GetGlobalRepositories().Page.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).Render("error", fiber.Map{
				"Title":   "Dojo | Not found",
				"Message": "This page does not exist.",
			}, "layouts/main")
		}
		log.Errorf("[Pages] lookup failed for slug=%s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load page")
	}

	og := &viewmodel.OpenGraph{
		Title:       "Dojo | " + page.Title,
		Description: page.MetaDescription,
		Image:       "/img/dojo-og.png",
		URL:         "/page/" + page.Slug,
	}
	return renderPage(c, "page", " | "+page.Title, og, fiber.Map{
		"PageTitle":   page.Title,
		"PageContent": page.Content,
	})
}
