package handler

import (
	"errors"
	"net/http"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/dgvaldes/rutero/rutero-backend/internal/middleware"
	"github.com/dgvaldes/rutero/rutero-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReminderHandler handles reminder HTTP requests
type ReminderHandler struct {
	reminderService *service.ReminderService
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(reminderService *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
	}
}

// ReminderResponse represents a due reminder in API responses
type ReminderResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GetToday returns the reminders due today that were not yet surfaced. Each
// reminder is returned at most once per day.
// GET /reminders/today
func (h *ReminderHandler) GetToday(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	reminders, err := h.reminderService.DueReminders(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to collect reminders")
		return NewInternalError(c, "Failed to collect reminders")
	}

	result := make([]ReminderResponse, len(reminders))
	for i, r := range reminders {
		result[i] = ReminderResponse{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
		}
	}
	return c.JSON(http.StatusOK, result)
}
