// Package rest exposes the calculator engine over HTTP.
package rest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"yqhp/calc-engine/internal/config"
	"yqhp/calc-engine/pkg/engine"
)

const shutdownTimeout = 5 * time.Second

// Server serves the engine operations as JSON endpoints.
type Server struct {
	app    *fiber.App
	engine *engine.Engine
	config *config.ServerConfig
	log    *zap.Logger
}

// NewServer builds the fiber app. A nil cfg uses the default server section and a nil
// log discards output.
func NewServer(eng *engine.Engine, cfg *config.ServerConfig, log *zap.Logger) *Server {
	if cfg == nil {
		cfg = &config.DefaultConfig().Server
	}
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          customErrorHandler,
		AppName:               "Calc Engine API",
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
	})

	s := &Server{app: app, engine: eng, config: cfg, log: log}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	s.app.Use(fiberrecover.New(fiberrecover.Config{
		EnableStackTrace: true,
	}))

	s.app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	s.app.Use(requestLogger(s.log))

	if s.config.EnableCORS {
		s.app.Use(cors.New(cors.Config{
			AllowOrigins: "*",
			AllowMethods: "GET,POST,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept",
			MaxAge:       86400,
		}))
	}
}

// requestLogger logs one line per request after the error handler has set the status.
func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		log.Info("request",
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)
		return nil
	}
}

// setupRoutes configures the API routes.
func (s *Server) setupRoutes() {
	s.app.Get("/health", s.healthCheck)

	api := s.app.Group("/api/v1")
	api.Get("/health", s.healthCheck)

	api.Post("/evaluate", s.evaluate)
	api.Post("/differentiate", s.differentiate)
	api.Post("/integrate", s.integrate)
	api.Post("/symbolic", s.symbolic)
	api.Post("/calculate", s.calculate)

	if s.config.EnableMetrics {
		api.Get("/metrics", s.getMetrics)
	}
}

// Start blocks serving on the configured address.
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("address", s.config.Address))
	return s.app.Listen(s.config.Address)
}

// StartWithContext starts the server and shuts it down when ctx is done.
func (s *Server) StartWithContext(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.Start()
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown waits up to shutdownTimeout for in-flight requests.
func (s *Server) Shutdown() error {
	s.log.Info("http server shutting down")
	return s.app.ShutdownWithTimeout(shutdownTimeout)
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// customErrorHandler renders errors that escape the handlers, such as 404s and panics.
func customErrorHandler(c *fiber.Ctx, err error) error {
	fe := fiber.ErrInternalServerError
	errors.As(err, &fe)

	return c.Status(fe.Code).JSON(ErrorResponse{
		Error:   fmt.Sprintf("error_%d", fe.Code),
		Message: fe.Message,
	})
}
