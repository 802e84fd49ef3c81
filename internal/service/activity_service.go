package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/user-activity-api/internal/config"
	"github.com/noah-isme/user-activity-api/internal/dto"
	"github.com/noah-isme/user-activity-api/internal/models"
	"github.com/noah-isme/user-activity-api/internal/observability"
	"github.com/noah-isme/user-activity-api/internal/repository"
)

var (
	// ErrActivityNotFound indicates the referenced activity does not exist.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrActivityAlreadyDeleted indicates a delete targeting an already
	// deleted activity.
	ErrActivityAlreadyDeleted = errors.New("activity already deleted")
)

// FieldValidationError carries field-level detail for rejected input.
type FieldValidationError struct {
	Field    string
	Message  string
	Rejected interface{}
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UserActivityService exposes the activity recording use cases.
type UserActivityService interface {
	CreateActivity(ctx context.Context, userID uint, req dto.CreateActivityRequest) (dto.ActivityResponse, error)
	DeleteActivity(ctx context.Context, activityID uint) error
	GetTimeline(ctx context.Context, userID uint, page, size int) (dto.TimelineResponse, error)
}

type userActivityService struct {
	repo       repository.UserActivityRepository
	validator  *validator.Validate
	pagination config.Pagination
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewUserActivityService constructs the user activity service. The service
// holds no per-call state and is safe for concurrent use; consistency of the
// delete transition is delegated to the repository transaction.
func NewUserActivityService(repo repository.UserActivityRepository, validator *validator.Validate, pagination config.Pagination, logger zerolog.Logger) UserActivityService {
	return &userActivityService{
		repo:       repo,
		validator:  validator,
		pagination: pagination,
		logger:     logger.With().Str("component", "user_activity_service").Logger(),
		tracer:     otel.Tracer("github.com/noah-isme/user-activity-api/internal/service/activity"),
	}
}

func (s *userActivityService) CreateActivity(ctx context.Context, userID uint, req dto.CreateActivityRequest) (dto.ActivityResponse, error) {
	ctx, span := s.tracer.Start(ctx, "activity.create")
	defer span.End()
	span.SetAttributes(attribute.Int64("activity.user_id", int64(userID)))

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		observability.ActivityEvents().WithLabelValues("rejected").Inc()
		return dto.ActivityResponse{}, err
	}

	if strings.TrimSpace(req.Description) == "" {
		err := &FieldValidationError{Field: "description", Message: "description is required", Rejected: req.Description}
		span.SetStatus(codes.Error, "validation failed")
		observability.ActivityEvents().WithLabelValues("rejected").Inc()
		return dto.ActivityResponse{}, err
	}

	metadata, err := normalizeMetadata(req.Metadata)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid metadata")
		observability.ActivityEvents().WithLabelValues("rejected").Inc()
		return dto.ActivityResponse{}, err
	}

	activity := models.UserActivity{
		UserID:       userID,
		ActivityType: req.ActivityType,
		Description:  req.Description,
		Metadata:     metadata,
		IsDeleted:    false,
	}

	if err := s.repo.Create(ctx, &activity); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.ActivityEvents().WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Uint("user_id", userID).Msg("failed to persist activity")
		return dto.ActivityResponse{}, err
	}

	observability.ActivityEvents().WithLabelValues("created").Inc()
	s.logger.Info().Uint("activity_id", activity.ID).Uint("user_id", userID).Str("activity_type", activity.ActivityType).Msg("activity recorded")

	return dto.NewActivityResponse(activity), nil
}

func (s *userActivityService) DeleteActivity(ctx context.Context, activityID uint) error {
	ctx, span := s.tracer.Start(ctx, "activity.delete")
	defer span.End()
	span.SetAttributes(attribute.Int64("activity.id", int64(activityID)))

	if err := s.repo.SoftDelete(ctx, activityID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			span.SetStatus(codes.Error, "not found")
			return ErrActivityNotFound
		case errors.Is(err, repository.ErrAlreadyDeleted):
			span.SetStatus(codes.Error, "already deleted")
			return ErrActivityAlreadyDeleted
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, "persistence failed")
			s.logger.Error().Err(err).Uint("activity_id", activityID).Msg("failed to delete activity")
			return err
		}
	}

	observability.ActivityEvents().WithLabelValues("deleted").Inc()
	s.logger.Info().Uint("activity_id", activityID).Msg("activity soft deleted")
	return nil
}

func (s *userActivityService) GetTimeline(ctx context.Context, userID uint, page, size int) (dto.TimelineResponse, error) {
	ctx, span := s.tracer.Start(ctx, "activity.timeline")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("activity.user_id", int64(userID)),
		attribute.Int("timeline.page", page),
		attribute.Int("timeline.size", size),
	)

	if err := s.validatePagination(page, size); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid pagination")
		return dto.TimelineResponse{}, err
	}

	activities, total, err := s.repo.ListActiveByUser(ctx, userID, page, size)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		s.logger.Error().Err(err).Uint("user_id", userID).Msg("failed to load timeline")
		return dto.TimelineResponse{}, err
	}

	responses := make([]dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, dto.NewActivityResponse(activity))
	}

	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(size)))
	}

	return dto.TimelineResponse{
		UserID:        userID,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		Activities:    responses,
	}, nil
}

func (s *userActivityService) validatePagination(page, size int) error {
	if page < 0 {
		return &FieldValidationError{
			Field:    "page",
			Message:  fmt.Sprintf("Page number must be 0 or greater. Provided: %d", page),
			Rejected: page,
		}
	}
	if size < s.pagination.MinPageSize {
		return &FieldValidationError{
			Field:    "size",
			Message:  fmt.Sprintf("Page size must be at least %d. Provided: %d", s.pagination.MinPageSize, size),
			Rejected: size,
		}
	}
	if size > s.pagination.MaxPageSize {
		return &FieldValidationError{
			Field:    "size",
			Message:  fmt.Sprintf("Page size cannot exceed %d. Provided: %d", s.pagination.MaxPageSize, size),
			Rejected: size,
		}
	}
	return nil
}

// normalizeMetadata maps blank metadata to absent and rejects content that is
// not syntactically valid JSON. The stored bytes are kept exactly as supplied
// so the document round-trips unchanged.
func normalizeMetadata(metadata *string) (datatypes.JSON, error) {
	if metadata == nil {
		return nil, nil
	}

	if strings.TrimSpace(*metadata) == "" {
		return nil, nil
	}

	if !json.Valid([]byte(*metadata)) {
		return nil, &FieldValidationError{
			Field:    "metadata",
			Message:  "Invalid JSON format in metadata field",
			Rejected: *metadata,
		}
	}

	return datatypes.JSON(*metadata), nil
}
