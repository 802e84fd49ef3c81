package dto

import (
	"time"

	"github.com/noah-isme/user-activity-api/internal/models"
)

// CreateActivityRequest is the payload for recording a new user activity.
// Metadata, when present, must be a syntactically valid JSON document.
type CreateActivityRequest struct {
	ActivityType string  `json:"activityType" validate:"required,oneof=LOGIN LOGOUT PASSWORD_CHANGE PROFILE_UPDATE"`
	Description  string  `json:"description" validate:"required"`
	Metadata     *string `json:"metadata" validate:"-"`
}

// ActivityResponse projects a persisted activity for API consumers.
type ActivityResponse struct {
	ID           uint      `json:"id"`
	ActivityType string    `json:"activityType"`
	Description  string    `json:"description"`
	Metadata     *string   `json:"metadata"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TimelineResponse wraps one page of a user's activity timeline together with
// the pagination metadata for the full result set.
type TimelineResponse struct {
	UserID        uint               `json:"userId"`
	Page          int                `json:"page"`
	Size          int                `json:"size"`
	TotalElements int64              `json:"totalElements"`
	TotalPages    int                `json:"totalPages"`
	Activities    []ActivityResponse `json:"activities"`
}

// NewActivityResponse converts a model into an activity projection.
func NewActivityResponse(activity models.UserActivity) ActivityResponse {
	var metadata *string
	if len(activity.Metadata) > 0 {
		content := string(activity.Metadata)
		metadata = &content
	}

	return ActivityResponse{
		ID:           activity.ID,
		ActivityType: activity.ActivityType,
		Description:  activity.Description,
		Metadata:     metadata,
		CreatedAt:    activity.CreatedAt,
	}
}
