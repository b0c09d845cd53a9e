package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/mikeskafld/dojo-web/app/repository"
	apiv1 "github.com/mikeskafld/dojo-web/internal/api/v1"
	"github.com/mikeskafld/dojo-web/internal/pkg/cache"
	"github.com/mikeskafld/dojo-web/internal/pkg/database"
	"github.com/mikeskafld/dojo-web/internal/pkg/env"
	"github.com/mikeskafld/dojo-web/internal/pkg/metrics/counter"
	"github.com/mikeskafld/dojo-web/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	cache.SetupCache()
	database.SetupDatabase()
	repository.InitializeFactory(database.GetDB())

	if env.IsDev() {
		if err := apiv1.ValidateSpec(apiv1.DefaultSpecPath); err != nil {
			fiberlog.Warnf("OpenAPI spec validation: %v", err)
		}
	}

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())
	app.Static("/", "./public/assets")

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	// Flush buffered view counters to the database periodically.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := counter.FlushAll(); err != nil {
				fiberlog.Warnf("counter flush failed: %v", err)
			}
		}
	}()

	return app
}
