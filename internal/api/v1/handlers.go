package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to the lead service to keep behavior consistent with the forms
	"github.com/mikeskafld/dojo-web/internal/pkg/database"
	"github.com/mikeskafld/dojo-web/internal/pkg/leads"
)

// Pong is the ping response body
type Pong struct {
	Ping string `json:"ping"`
}

// APIServer implements the ServerInterface
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// RegisterHandlers attaches the v1 routes to the given router group
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)
	router.Post("/creator-applications", s.PostCreatorApplication)
	router.Post("/waitlist", s.PostLearnerWaitlist)
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// PostCreatorApplication accepts a creator application as JSON. The response
// body always carries the uniform submission result shape.
func (s *APIServer) PostCreatorApplication(c *fiber.Ctx) error {
	var in leads.CreatorApplicationInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(leads.Result{
			Success: false,
			Message: "Invalid request body",
			Error:   leads.CodeValidationError,
		})
	}

	svc := leads.NewServiceFromDB(database.GetDB())
	result := svc.SubmitCreatorApplication(c.Context(), in)
	return c.Status(leadResultStatus(result)).JSON(result)
}

// PostLearnerWaitlist accepts a waitlist signup as JSON.
func (s *APIServer) PostLearnerWaitlist(c *fiber.Ctx) error {
	var in leads.LearnerWaitlistInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(leads.Result{
			Success: false,
			Message: "Invalid request body",
			Error:   leads.CodeValidationError,
		})
	}

	svc := leads.NewServiceFromDB(database.GetDB())
	result := svc.SubmitLearnerWaitlist(c.Context(), in)
	return c.Status(leadResultStatus(result)).JSON(result)
}

func leadResultStatus(r leads.Result) int {
	if r.Success {
		return fiber.StatusCreated
	}
	switch r.Error {
	case leads.CodeValidationError, leads.CodeInvalidEmail:
		return fiber.StatusBadRequest
	case leads.CodeDuplicateEmail:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
