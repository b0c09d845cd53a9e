package controllers

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/mikeskafld/dojo-web/app/repository"
	"github.com/mikeskafld/dojo-web/internal/pkg/metrics/counter"
	"github.com/mikeskafld/dojo-web/internal/pkg/viewmodel"
)

// HandleBlogIndex renders the published blog posts.
func HandleBlogIndex(c *fiber.Ctx) error {
	posts, err := repository.GetGlobalRepositories().Blog.GetPublished(0, 50)
	if err != nil {
		log.Errorf("[Blog] listing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to fetch blog posts")
	}

	og := &viewmodel.OpenGraph{
		Title:       "Blog - Dojo",
		Description: "Product updates and stories from the Dojo team.",
		Image:       "/img/dojo-og.png",
		URL:         "/blog",
	}
	return renderPage(c, "blog_index", " | Blog", og, fiber.Map{
		"Posts": posts,
	})
}

// HandleBlogShow renders a single blog post and counts the view.
func HandleBlogShow(c *fiber.Ctx) error {
	slug := c.Params("slug")
	post, err := repository.GetGlobalRepositories().Blog.GetBySlug(slug)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorf("[Blog] lookup failed for slug=%s: %v", slug, err)
		}
		post = nil
	}
	if post == nil || !post.Published {
		return c.Status(fiber.StatusNotFound).Render("error", fiber.Map{
			"Title":   "Dojo | Not found",
			"Message": "This post does not exist.",
		}, "layouts/main")
	}

	// View counts are buffered in Redis and flushed periodically.
	if err := counter.AddBlogPostView(post.ID); err != nil {
		log.Warnf("[Blog] view counter failed for post=%d: %v", post.ID, err)
	}

	og := &viewmodel.OpenGraph{
		Title:       post.Title + " - Dojo",
		Description: blogDescription(post.Excerpt, post.Content),
		Image:       "/img/dojo-og.png",
		URL:         "/blog/" + post.Slug,
	}
	return renderPage(c, "blog_show", " | "+post.Title, og, fiber.Map{
		"Post": post,
	})
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// blogDescription strips markup and truncates content for meta descriptions.
func blogDescription(excerpt, content string) string {
	text := excerpt
	if text == "" {
		text = content
	}
	text = strings.TrimSpace(htmlTagPattern.ReplaceAllString(text, ""))
	if len(text) > 160 {
		text = text[:157] + "..."
	}
	return text
}
