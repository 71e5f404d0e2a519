package presence

import (
	"errors"

	"presence-sync/core/logger"
	"presence-sync/core/reconcile"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the presence engine.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the presence routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/presence")
	group.Get("/status", h.HandleStatus)
	group.Get("/channels", h.HandleChannels)
	group.Get("/plan", h.HandlePlan)
	group.Post("/reload", h.HandleReload)
	group.Put("/links/:user_id", h.HandleSetLink)
	group.Delete("/links/:user_id", h.HandleDeleteLink)
}

// HandleStatus returns the engine status.
// @Summary Presence Status
// @Description Lifecycle state, resolved containers, owned channel count and the last pass.
// @Tags presence
// @Produce json
// @Success 200 {object} presence.Status
// @Router /presence/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandleChannels lists owned channels.
// @Summary Owned Channels
// @Tags presence
// @Produce json
// @Success 200 {array} presence.OwnedChannel
// @Router /presence/channels [get]
func (h *Handler) HandleChannels(c *fiber.Ctx) error {
	return c.JSON(h.service.Channels())
}

// HandlePlan returns what the next pass would change.
// @Summary Dry-run Pass
// @Description Fetches the roster and diffs it against the last applied snapshot without touching Discord.
// @Tags presence
// @Produce json
// @Success 200 {object} presence.Plan
// @Failure 409 {object} map[string]string "Engine not initialized"
// @Failure 502 {object} map[string]string "Roster unavailable"
// @Router /presence/plan [get]
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	plan, err := h.service.Plan(c.Context())
	if errors.Is(err, reconcile.ErrNotInitialized) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Warn("Plan failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(plan)
}

// HandleReload restarts the engine.
// @Summary Reload Engine
// @Description Stops the engine, resolves the guild and category again and restarts it.
// @Tags presence
// @Produce json
// @Success 200 {object} presence.Status
// @Failure 422 {object} map[string]string "Configuration does not resolve"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /presence/reload [post]
func (h *Handler) HandleReload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Manual presence reload requested")

	if err := h.service.Reload(c.Context()); err != nil {
		l.Error("Presence reload failed", zap.Error(err))
		status := fiber.StatusInternalServerError
		if reconcile.IsConfigurationError(err) {
			status = fiber.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(h.service.Status())
}

// LinkRequest is the body of a link update.
type LinkRequest struct {
	DiscordID      string `json:"discord_id" validate:"required,numeric"`
	UseDiscordName bool   `json:"use_discord_name"`
}

// HandleSetLink links a user to a Discord account.
// @Summary Set Account Link
// @Tags presence
// @Accept json
// @Produce json
// @Param user_id path string true "Emulator user id"
// @Param link body presence.LinkRequest true "Link"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Linking disabled"
// @Router /presence/links/{user_id} [put]
func (h *Handler) HandleSetLink(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := reconcile.UserID(c.Params("user_id"))

	var req LinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	err := h.service.SetLink(c.Context(), id, reconcile.Link{
		ExternalAccountID: req.DiscordID,
		UseExternalName:   req.UseDiscordName,
	})
	if errors.Is(err, ErrLinkingDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Failed to save link", zap.String("user_id", string(id)), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "linked", "user_id": id})
}

// HandleDeleteLink removes a user's link.
// @Summary Delete Account Link
// @Tags presence
// @Produce json
// @Param user_id path string true "Emulator user id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "No link or linking disabled"
// @Router /presence/links/{user_id} [delete]
func (h *Handler) HandleDeleteLink(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := reconcile.UserID(c.Params("user_id"))

	removed, err := h.service.DeleteLink(c.Context(), id)
	if errors.Is(err, ErrLinkingDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Failed to delete link", zap.String("user_id", string(id)), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "link not found"})
	}
	return c.JSON(fiber.Map{"status": "unlinked", "user_id": id})
}
