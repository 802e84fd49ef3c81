package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity type values accepted by the API.
const (
	ActivityTypeLogin          = "LOGIN"
	ActivityTypeLogout         = "LOGOUT"
	ActivityTypePasswordChange = "PASSWORD_CHANGE"
	ActivityTypeProfileUpdate  = "PROFILE_UPDATE"
)

// UserActivity records a single user action such as a login or a profile
// update. Rows are never removed; deletion flips the is_deleted flag and the
// row stays around for history.
type UserActivity struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index:idx_user_activities_user_id" json:"user_id"`
	ActivityType string         `gorm:"size:32;not null" json:"activity_type"`
	Description  string         `gorm:"not null" json:"description"`
	Metadata     datatypes.JSON `gorm:"type:json" json:"metadata"`
	CreatedAt    time.Time      `gorm:"index:idx_user_activities_created_at" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	IsDeleted    bool           `gorm:"not null;default:false" json:"is_deleted"`
}

// TableName pins the table name used by the persisted schema.
func (UserActivity) TableName() string {
	return "user_activities"
}
