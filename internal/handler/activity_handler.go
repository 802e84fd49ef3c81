package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/user-activity-api/internal/config"
	"github.com/noah-isme/user-activity-api/internal/dto"
	"github.com/noah-isme/user-activity-api/internal/service"
	"github.com/noah-isme/user-activity-api/internal/utils"
)

// UserActivityHandler serves the user activity endpoints.
type UserActivityHandler struct {
	service    service.UserActivityService
	pagination config.Pagination
	logger     zerolog.Logger
}

// NewUserActivityHandler constructs the handler instance.
func NewUserActivityHandler(service service.UserActivityService, pagination config.Pagination, logger zerolog.Logger) *UserActivityHandler {
	return &UserActivityHandler{
		service:    service,
		pagination: pagination,
		logger:     logger.With().Str("component", "user_activity_handler").Logger(),
	}
}

// Register wires the activity routes.
func (h *UserActivityHandler) Register(router fiber.Router) {
	router.Post("/users/:userId/activities", h.create)
	router.Delete("/activities/:activityId", h.delete)
	router.Get("/users/:userId/activities/timeline", h.timeline)
}

func (h *UserActivityHandler) create(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "userId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Bad Request", "invalid user id")
	}

	var payload dto.CreateActivityRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Bad Request", "invalid request payload")
	}

	activity, err := h.service.CreateActivity(c.Context(), userID, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendFieldErrors(c, fiber.StatusBadRequest, "Validation Failed", "Input validation failed", fieldErrorsFrom(err))
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("user_id", userID).Msg("failed to create activity")
		return utils.SendError(c, fiber.StatusInternalServerError, "Internal Server Error", "failed to create activity")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, activity)
}

func (h *UserActivityHandler) delete(c *fiber.Ctx) error {
	activityID, err := parseUintParam(c, "activityId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Bad Request", "invalid activity id")
	}

	if err := h.service.DeleteActivity(c.Context(), activityID); err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "Not Found", err.Error())
		case errors.Is(err, service.ErrActivityAlreadyDeleted):
			return utils.SendError(c, fiber.StatusBadRequest, "Bad Request", err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("activity_id", activityID).Msg("failed to delete activity")
			return utils.SendError(c, fiber.StatusInternalServerError, "Internal Server Error", "failed to delete activity")
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserActivityHandler) timeline(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "userId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Bad Request", "invalid user id")
	}

	page, _, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Bad Request", "invalid page parameter")
	}

	size, sizeProvided, err := parseQueryInt(c, "size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Bad Request", "invalid size parameter")
	}
	if !sizeProvided {
		size = h.pagination.DefaultPageSize
	}

	timeline, err := h.service.GetTimeline(c.Context(), userID, page, size)
	if err != nil {
		if isValidationError(err) {
			return utils.SendFieldErrors(c, fiber.StatusBadRequest, "Validation Failed", "Invalid pagination parameters", fieldErrorsFrom(err))
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("user_id", userID).Msg("failed to load timeline")
		return utils.SendError(c, fiber.StatusInternalServerError, "Internal Server Error", "failed to load timeline")
	}

	return utils.SendSuccess(c, timeline)
}
