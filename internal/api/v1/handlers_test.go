package apiv1

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeskafld/dojo-web/internal/pkg/leads"
)

func TestGetPing(t *testing.T) {
	app := fiber.New()
	RegisterHandlers(app.Group("/api/v1"), NewAPIServer())

	req := httptest.NewRequest("GET", "/api/v1/ping", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var pong Pong
	require.NoError(t, json.Unmarshal(body, &pong))
	assert.Equal(t, "pong", pong.Ping)
}

func TestLeadResultStatus(t *testing.T) {
	tests := []struct {
		name   string
		result leads.Result
		want   int
	}{
		{"success", leads.Result{Success: true}, fiber.StatusCreated},
		{"validation error", leads.Result{Error: leads.CodeValidationError}, fiber.StatusBadRequest},
		{"invalid email", leads.Result{Error: leads.CodeInvalidEmail}, fiber.StatusBadRequest},
		{"duplicate email", leads.Result{Error: leads.CodeDuplicateEmail}, fiber.StatusConflict},
		{"unknown failure", leads.Result{Error: "connection refused"}, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, leadResultStatus(tt.result), tt.name)
	}
}
