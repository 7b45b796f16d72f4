package inspect

import (
	"view-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the inspector.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the inspector routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api")
	group.Get("/surface", h.HandleSurface)
	group.Post("/transactions", h.HandleTransaction)
}

// transactionRequest is the POST /api/transactions body.
type transactionRequest struct {
	Events []Event `json:"events"`
}

// HandleSurface returns the current surface state.
func (h *Handler) HandleSurface(c *fiber.Ctx) error {
	return c.JSON(h.service.Snapshot())
}

// HandleTransaction applies a posted transaction and returns the patch
// operations its replay issued.
func (h *Handler) HandleTransaction(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		l.Warn("malformed transaction body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if len(req.Events) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "transaction has no events"})
	}

	report, err := h.service.Perform(c.Context(), req.Events)
	if err != nil {
		l.Warn("transaction rejected", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("transaction applied",
		zap.String("txn", report.Transaction),
		zap.Int("events", len(req.Events)),
		zap.Int("ops", len(report.Ops)))

	return c.JSON(report)
}
