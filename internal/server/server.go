// Package server exposes the conversion pipeline as a tool-call HTTP API.
//
// Tools are invoked with POST /v1/tools/:name; the only registered tool is
// markdown_to_pdf. Finished PDFs are served as static files from the output
// directory, so the download URLs returned by the pipeline resolve against
// this same server.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/xid"

	mdpress "github.com/alnah/go-mdpress"
	"github.com/alnah/go-mdpress/internal/config"
	"github.com/alnah/go-mdpress/internal/logging"
)

// Converter runs the markdown-to-PDF pipeline. *mdpress.Service satisfies it.
type Converter interface {
	Convert(ctx context.Context, input mdpress.Input) (*mdpress.Result, error)
}

// Deps bundles everything the app needs. Config must carry a resolved
// output directory when static downloads are wanted.
type Deps struct {
	Converter Converter
	Config    *config.Config
}

// New creates and configures a Fiber app instance.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	registerMiddleware(app)
	registerRoutes(app, deps)

	// Ensure all responses, including 404s, return the failure envelope.
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	})

	return app
}

// errorHandler maps every failure to the uniform envelope
// {"is_error": true, "message": ...}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	logging.Warn("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"status", code,
		"message", msg,
		"request_id", requestID(c),
	)

	return c.Status(code).JSON(fiber.Map{
		"is_error": true,
		"message":  msg,
	})
}

// registerMiddleware attaches global middleware to the app.
func registerMiddleware(app *fiber.App) {
	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return xid.New().String()
		},
	}))

	app.Use(healthcheck.New(healthcheck.Config{
		LivenessEndpoint: "/healthz",
	}))

	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logging.Info("request handled",
			"method", c.Method(),
			"path", c.Path(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestID(c),
		)
		return err
	})
}

// registerRoutes mounts the tool dispatch and the download file server.
func registerRoutes(app *fiber.App, deps Deps) {
	h := &toolHandler{converter: deps.Converter}

	v1 := app.Group("/v1")
	v1.Post("/tools/:name", h.handleToolCall)

	// Finished PDFs are downloadable at /<file_name>.pdf, matching the
	// download URLs the pipeline reports.
	if deps.Config != nil && deps.Config.Output.Dir != "" {
		app.Static("/", deps.Config.Output.Dir)
	}
}

func requestID(c *fiber.Ctx) string {
	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = c.GetRespHeader(fiber.HeaderXRequestID)
	}
	return id
}
