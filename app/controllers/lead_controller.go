package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/mikeskafld/dojo-web/internal/pkg/constants"
	"github.com/mikeskafld/dojo-web/internal/pkg/database"
	"github.com/mikeskafld/dojo-web/internal/pkg/hcaptcha"
	"github.com/mikeskafld/dojo-web/internal/pkg/leads"
)

// HandleCreatorApplicationSubmit accepts the creator application form.
// The submission result is flashed back onto the form page.
func HandleCreatorApplicationSubmit(c *fiber.Ctx) error {
	if !verifyFormCaptcha(c) {
		fm := fiber.Map{"type": "error", "message": "Captcha verification failed. Please try again."}
		return flash.WithError(c, fm).Redirect(constants.ForCreatorsRoute)
	}

	svc := leads.NewServiceFromDB(database.GetDB())
	result := svc.SubmitCreatorApplication(context.Background(), leads.CreatorApplicationInput{
		Name:         c.FormValue("name"),
		Email:        c.FormValue("email"),
		Niche:        c.FormValue("niche"),
		SocialLink:   c.FormValue("social_link"),
		AudienceSize: c.FormValue("audience_size"),
	})

	if !result.Success {
		fm := fiber.Map{"type": "error", "message": result.Message, "code": result.Error}
		return flash.WithError(c, fm).Redirect(constants.ForCreatorsRoute)
	}

	fm := fiber.Map{"type": "success", "message": result.Message}
	return flash.WithSuccess(c, fm).Redirect(constants.ForCreatorsRoute)
}

// HandleLearnerWaitlistSubmit accepts the learner waitlist form. Interests
// arrive as repeated form values from the checkbox group.
func HandleLearnerWaitlistSubmit(c *fiber.Ctx) error {
	if !verifyFormCaptcha(c) {
		fm := fiber.Map{"type": "error", "message": "Captcha verification failed. Please try again."}
		return flash.WithError(c, fm).Redirect(constants.ForLearnersRoute)
	}

	var interests []string
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		if string(key) == "interests" && len(value) > 0 {
			interests = append(interests, string(value))
		}
	})

	svc := leads.NewServiceFromDB(database.GetDB())
	result := svc.SubmitLearnerWaitlist(context.Background(), leads.LearnerWaitlistInput{
		Email:     c.FormValue("email"),
		Name:      c.FormValue("name"),
		Interests: interests,
	})

	if !result.Success {
		fm := fiber.Map{"type": "error", "message": result.Message, "code": result.Error}
		return flash.WithError(c, fm).Redirect(constants.ForLearnersRoute)
	}

	fm := fiber.Map{"type": "success", "message": result.Message}
	return flash.WithSuccess(c, fm).Redirect(constants.ForLearnersRoute)
}

// verifyFormCaptcha checks the hCaptcha response when captcha is configured.
func verifyFormCaptcha(c *fiber.Ctx) bool {
	if !hcaptcha.Enabled() {
		return true
	}
	token := c.FormValue("h-captcha-response")
	ok, err := hcaptcha.Verify(token)
	if err != nil {
		log.Warnf("[Leads] captcha verification failed: %v", err)
		return false
	}
	return ok
}
