package rest

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"yqhp/calc-engine/internal/expression"
	"yqhp/calc-engine/pkg/calcerr"
	"yqhp/calc-engine/pkg/engine"
)

// healthCheck handles GET /health.
func (s *Server) healthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// evaluate handles POST /api/v1/evaluate.
func (s *Server) evaluate(c *fiber.Ctx) error {
	var req EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidRequest(c, err)
	}

	settings := s.engine.Settings()
	preferFraction := settings.PreferFraction
	if req.PreferFraction != nil {
		preferFraction = *req.PreferFraction
	}
	unit := settings.AngleUnit
	if req.AngleUnit != "" {
		u, err := expression.ParseAngleUnit(req.AngleUnit)
		if err != nil {
			return invalidRequest(c, err)
		}
		unit = u
	}

	return respond(c, func() (engine.Result, error) {
		return s.engine.Evaluate(req.Expression, preferFraction, unit)
	})
}

// differentiate handles POST /api/v1/differentiate.
func (s *Server) differentiate(c *fiber.Ctx) error {
	var req ExpressionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidRequest(c, err)
	}
	return respond(c, func() (engine.Result, error) {
		return s.engine.Differentiate(req.Expression)
	})
}

// integrate handles POST /api/v1/integrate.
func (s *Server) integrate(c *fiber.Ctx) error {
	var req IntegrateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidRequest(c, err)
	}
	if (req.From == nil) != (req.To == nil) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "both 'from' and 'to' are required for a definite integral",
		})
	}
	return respond(c, func() (engine.Result, error) {
		if req.From != nil {
			return s.engine.DefiniteIntegral(req.Expression, *req.From, *req.To)
		}
		return s.engine.Integrate(req.Expression)
	})
}

// symbolic handles POST /api/v1/symbolic.
func (s *Server) symbolic(c *fiber.Ctx) error {
	var req ExpressionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidRequest(c, err)
	}
	return respond(c, func() (engine.Result, error) {
		return s.engine.Symbolic(req.Expression)
	})
}

// calculate handles POST /api/v1/calculate.
func (s *Server) calculate(c *fiber.Ctx) error {
	var req ExpressionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidRequest(c, err)
	}
	return respond(c, func() (engine.Result, error) {
		return s.engine.Calculate(req.Expression)
	})
}

// getMetrics handles GET /api/v1/metrics.
func (s *Server) getMetrics(c *fiber.Ctx) error {
	return c.JSON(MetricsResponse{Metrics: s.engine.Metrics().Snapshot()})
}

func respond(c *fiber.Ctx, call func() (engine.Result, error)) error {
	res, err := call()
	if err != nil {
		return expressionError(c, res, err)
	}
	return c.JSON(toResultResponse(res))
}

func invalidRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_request",
		Message: err.Error(),
	})
}

func expressionError(c *fiber.Ctx, res engine.Result, err error) error {
	kind := calcerr.KindOf(err)
	resp := ErrorResponse{
		Error:   kind.String(),
		Message: err.Error(),
		Output:  res.Output,
	}
	var ee *calcerr.ExpressionError
	if errors.As(err, &ee) && ee.Position >= 0 {
		pos := ee.Position
		resp.Position = &pos
	}
	return c.Status(statusFor(kind)).JSON(resp)
}

// statusFor maps malformed input to 400 and well-formed but uncomputable input to 422.
func statusFor(kind calcerr.Kind) int {
	switch kind {
	case calcerr.KindParse, calcerr.KindArity, calcerr.KindMalformedExpression, calcerr.KindUnrecognizedSymbolicForm:
		return fiber.StatusBadRequest
	case calcerr.KindInvalidDomain, calcerr.KindDivisionByZero, calcerr.KindUnsupportedOperation:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
