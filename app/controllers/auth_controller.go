package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/mikeskafld/dojo-web/app/models"
	"github.com/mikeskafld/dojo-web/internal/pkg/database"
	"github.com/mikeskafld/dojo-web/internal/pkg/session"
	"github.com/mikeskafld/dojo-web/internal/pkg/usercontext"
)

// HandleAuthLogin renders the login form and processes submissions.
func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		var user models.User
		fm := fiber.Map{
			"type": "error",
		}

		// notice: in production you should not inform the user
		// with detailed messages about login failures
		result := database.GetDB().Where("email = ?", c.FormValue("email")).First(&user)
		if result.Error != nil {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !models.CheckPasswordHash(c.FormValue("password"), user.Password) {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !user.IsActive() {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess.Set(usercontext.AuthKey, true)
		sess.Set(usercontext.KeyUserID, user.ID)
		sess.Set(usercontext.KeyUsername, user.Name)
		sess.Set(usercontext.KeyIsAdmin, user.Role == models.ROLE_ADMIN)

		err = sess.Save()
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		database.GetDB().Model(&user).Update("last_login_at", time.Now())

		fm = fiber.Map{
			"type":    "success",
			"message": "Welcome back!",
		}

		return flash.WithSuccess(c, fm).Redirect("/")
	}

	csrfToken, _ := c.Locals("csrf").(string)
	return renderPage(c, "login", " | Log in", nil, fiber.Map{
		"CSRFToken": csrfToken,
	})
}

// HandleAuthLogout destroys the session and returns to the start page.
func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"

		return flash.WithError(c, fm).Redirect("/login")
	}

	err = sess.Destroy()
	if err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "See you soon!",
	}

	c.Locals(usercontext.KeyFromProtected, false)

	return flash.WithSuccess(c, fm).Redirect("/")
}
