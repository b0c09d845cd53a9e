package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/mikeskafld/dojo-web/internal/pkg/constants"
	"github.com/mikeskafld/dojo-web/internal/pkg/database"
	"github.com/mikeskafld/dojo-web/internal/pkg/leadexport"
	"github.com/mikeskafld/dojo-web/internal/pkg/leads"
)

// HandleAdminLeads lists captured leads with totals.
func HandleAdminLeads(c *fiber.Ctx) error {
	svc := leads.NewServiceFromDB(database.GetDB())
	ctx := context.Background()

	creators, err := svc.ListCreatorApplications(ctx)
	if err != nil {
		log.Errorf("[Admin] creator lead listing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load leads")
	}
	learners, err := svc.ListLearnerWaitlistEntries(ctx)
	if err != nil {
		log.Errorf("[Admin] waitlist listing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load leads")
	}

	exportCfg, _ := leadexport.LoadConfig()
	exportEnabled := exportCfg != nil && exportCfg.IsEnabled()

	return renderPage(c, "admin_leads", " | Leads", nil, fiber.Map{
		"Creators":      creators,
		"Learners":      learners,
		"CreatorCount":  len(creators),
		"LearnerCount":  len(learners),
		"ExportEnabled": exportEnabled,
	})
}

// HandleAdminLeadsExport uploads both lead lists as CSV files to S3.
func HandleAdminLeadsExport(c *fiber.Ctx) error {
	cfg, err := leadexport.LoadConfig()
	if err != nil || !cfg.IsEnabled() {
		fm := fiber.Map{"type": "error", "message": "S3 export is not configured"}
		return flash.WithError(c, fm).Redirect(constants.AdminLeadsRoute)
	}

	client, err := leadexport.NewClient(cfg)
	if err != nil {
		log.Errorf("[Admin] export client init failed: %v", err)
		fm := fiber.Map{"type": "error", "message": "S3 export client could not be initialized"}
		return flash.WithError(c, fm).Redirect(constants.AdminLeadsRoute)
	}

	svc := leads.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	creators, err := svc.ListCreatorApplications(ctx)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Failed to load creator applications"}
		return flash.WithError(c, fm).Redirect(constants.AdminLeadsRoute)
	}
	learners, err := svc.ListLearnerWaitlistEntries(ctx)
	if err != nil {
		fm := fiber.Map{"type": "error", "message": "Failed to load waitlist entries"}
		return flash.WithError(c, fm).Redirect(constants.AdminLeadsRoute)
	}

	creatorResult, err := client.ExportCreatorApplications(ctx, creators)
	if err != nil {
		log.Errorf("[Admin] creator export failed: %v", err)
		fm := fiber.Map{"type": "error", "message": "Creator export failed"}
		return flash.WithError(c, fm).Redirect(constants.AdminLeadsRoute)
	}
	learnerResult, err := client.ExportLearnerWaitlist(ctx, learners)
	if err != nil {
		log.Errorf("[Admin] waitlist export failed: %v", err)
		fm := fiber.Map{"type": "error", "message": "Waitlist export failed"}
		return flash.WithError(c, fm).Redirect(constants.AdminLeadsRoute)
	}

	fm := fiber.Map{
		"type": "success",
		"message": fmt.Sprintf("Exported %d creator applications and %d waitlist entries",
			creatorResult.Rows, learnerResult.Rows),
	}
	return flash.WithSuccess(c, fm).Redirect(constants.AdminLeadsRoute)
}
