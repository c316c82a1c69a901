package main

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"

	"github.com/marekdadej/Eventer/pkg/engine"
	"github.com/marekdadej/Eventer/pkg/logger"
	"github.com/marekdadej/Eventer/pkg/render"
)

// MeshTimeout bounds tessellation for one /api/scene request.
const MeshTimeout = 60 * time.Second

// Server is the HTTP front end.
type Server struct {
	app   *App
	log   *logger.Logger
	fiber *fiber.App
}

// NewServer wires the routes.
func NewServer(a *App, log *logger.Logger) *Server {
	s := &Server{app: a, log: log.With("component", "http")}

	f := fiber.New(fiber.Config{
		AppName:      "Eventer",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * MeshTimeout,
		BodyLimit:    1 << 20,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	f.Use(recover.New())
	f.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))
	f.Use(s.requestLogger)

	// ============================================================
	// Routes
	// ============================================================

	f.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := f.Group("/api")
	api.Post("/scene", s.scene)
	api.Post("/bom", s.bom)
	api.Post("/plan.png", s.plan(false))
	api.Post("/plan.svg", s.plan(true))
	api.Post("/export", s.export)

	s.fiber = f
	return s
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info("listening", "addr", addr)
	return s.fiber.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.fiber.Shutdown()
}

func (s *Server) requestLogger(c fiber.Ctx) error {
	id := uuid.NewString()
	c.Set("X-Request-ID", id)
	start := time.Now()
	err := c.Next()
	s.log.Info("request",
		"id", id,
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"latency", time.Since(start).String(),
	)
	return err
}

// decode reads the request body. An empty body selects the defaults.
func decode(c fiber.Ctx) (Request, error) {
	var req Request
	if len(c.Body()) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return req, err
	}
	return req, nil
}

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON payload: " + err.Error()})
}

// failed reports script errors, timeouts included, as 422 and everything
// else as 500.
func failed(c fiber.Ctx, evalErrs []engine.EvalError, err error) error {
	switch {
	case err == nil:
	case scriptFault(err):
		evalErrs = append(evalErrs, engine.EvalError{Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": evalErrs})
}

// sceneStatus maps an evaluation to its response status.
func sceneStatus(res EvalResult) int {
	switch {
	case res.Failed:
		return fiber.StatusInternalServerError
	case len(res.Errors) > 0:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusOK
	}
}

func queryBool(c fiber.Ctx, key string) bool {
	b, _ := strconv.ParseBool(c.Query(key))
	return b
}

// scene handles POST /api/scene[?meshes=true].
func (s *Server) scene(c fiber.Ctx) error {
	req, err := decode(c)
	if err != nil {
		return badRequest(c, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), MeshTimeout)
	defer cancel()

	res := s.app.Evaluate(ctx, req, queryBool(c, "meshes"))
	return c.Status(sceneStatus(res)).JSON(res)
}

// bom handles POST /api/bom[?format=json|csv|text].
func (s *Server) bom(c fiber.Ctx) error {
	req, err := decode(c)
	if err != nil {
		return badRequest(c, err)
	}
	b, evalErrs, err := s.app.BOM(req)
	if err != nil || len(evalErrs) > 0 {
		return failed(c, evalErrs, err)
	}

	var buf bytes.Buffer
	switch c.Query("format", "json") {
	case "csv":
		if err := b.WriteCSV(&buf); err != nil {
			return failed(c, nil, err)
		}
		c.Set("Content-Type", "text/csv; charset=utf-8")
		return c.Send(buf.Bytes())
	case "text":
		if err := b.WriteText(&buf); err != nil {
			return failed(c, nil, err)
		}
		c.Set("Content-Type", "text/plain; charset=utf-8")
		return c.Send(buf.Bytes())
	default:
		return c.JSON(b)
	}
}

// plan handles POST /api/plan.png and /api/plan.svg[?width=&height=&grid=].
func (s *Server) plan(svg bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		req, err := decode(c)
		if err != nil {
			return badRequest(c, err)
		}
		opts := render.Options{Title: c.Query("title")}
		opts.Width, _ = strconv.Atoi(c.Query("width"))
		opts.Height, _ = strconv.Atoi(c.Query("height"))
		opts.Grid, _ = strconv.ParseFloat(c.Query("grid"), 64)

		var buf bytes.Buffer
		evalErrs, err := s.app.Plan(&buf, req, opts, svg)
		if err != nil || len(evalErrs) > 0 {
			return failed(c, evalErrs, err)
		}
		if svg {
			c.Set("Content-Type", "image/svg+xml")
		} else {
			c.Set("Content-Type", "image/png")
		}
		return c.Send(buf.Bytes())
	}
}

// export handles POST /api/export[?flat=true].
func (s *Server) export(c fiber.Ctx) error {
	req, err := decode(c)
	if err != nil {
		return badRequest(c, err)
	}
	var buf bytes.Buffer
	evalErrs, err := s.app.Export(&buf, req, queryBool(c, "flat"))
	if err != nil || len(evalErrs) > 0 {
		return failed(c, evalErrs, err)
	}
	c.Set("Content-Type", "application/json")
	return c.Send(buf.Bytes())
}
