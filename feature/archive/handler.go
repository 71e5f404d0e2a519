package archive

import (
	"time"

	"presence-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultListLimit = 100

// Handler serves the pass archive over HTTP.
type Handler struct {
	recorder *Recorder
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(recorder *Recorder, logger *zap.Logger) *Handler {
	return &Handler{recorder: recorder, logger: logger}
}

// RegisterRoutes registers the archive routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/archive")
	group.Get("/passes", h.HandleListPasses)
}

// HandleListPasses lists archived passes for one day.
// @Summary List Archived Passes
// @Description Lists the pass reports stored for a UTC day (default today), newest last.
// @Tags archive
// @Produce json
// @Param date query string false "Day as YYYY-MM-DD"
// @Param limit query int false "Maximum number of objects"
// @Success 200 {object} map[string]interface{} "Object names"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /archive/passes [get]
func (h *Handler) HandleListPasses(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
		}
		day = parsed
	}
	limit := c.QueryInt("limit", defaultListLimit)

	names, err := h.recorder.List(c.Context(), day, limit)
	if err != nil {
		l.Error("Failed to list archived passes", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if names == nil {
		names = []string{}
	}

	return c.JSON(fiber.Map{
		"date":    day.Format(time.DateOnly),
		"bucket":  h.recorder.Bucket(),
		"objects": names,
	})
}
