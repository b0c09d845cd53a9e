package apiv1

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// DefaultSpecPath is where the served OpenAPI document lives on disk.
const DefaultSpecPath = "./public/docs/v1/openapi.yml"

// ValidateSpec loads and validates the OpenAPI document. Run at startup in
// dev so a broken spec fails fast instead of serving garbage under /docs.
func ValidateSpec(path string) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to load OpenAPI spec %s: %w", path, err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return fmt.Errorf("OpenAPI spec %s is invalid: %w", path, err)
	}
	return nil
}
