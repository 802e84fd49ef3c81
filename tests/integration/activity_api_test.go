package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/user-activity-api/internal/config"
	"github.com/noah-isme/user-activity-api/internal/dto"
	"github.com/noah-isme/user-activity-api/internal/handler"
	"github.com/noah-isme/user-activity-api/internal/models"
	"github.com/noah-isme/user-activity-api/internal/repository"
	"github.com/noah-isme/user-activity-api/internal/router"
	"github.com/noah-isme/user-activity-api/internal/service"
	"github.com/noah-isme/user-activity-api/internal/utils"
)

func setupActivityAPI(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserActivity{}))

	cfg := config.Config{
		AppName: "User Activity API",
		AppEnv:  "test",
		Pagination: config.Pagination{
			MinPageSize:     1,
			MaxPageSize:     100,
			DefaultPageSize: 20,
		},
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.Nop()

	activityRepo := repository.NewUserActivityRepository(db)
	activityService := service.NewUserActivityService(activityRepo, validate, cfg.Pagination, logger)
	activityHandler := handler.NewUserActivityHandler(activityService, cfg.Pagination, logger)

	app := fiber.New(fiber.Config{AppName: cfg.AppName})
	router.Register(app, cfg, router.Dependencies{ActivityHandler: activityHandler, DB: db})
	return app
}

func createActivity(t *testing.T, app *fiber.App, userID uint, payload map[string]interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/activities", userID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func getTimeline(t *testing.T, app *fiber.App, userID uint, query string) *http.Response {
	t.Helper()
	url := fmt.Sprintf("/api/v1/users/%d/activities/timeline%s", userID, query)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil))
	require.NoError(t, err)
	return resp
}

func TestCreateAndReadTimeline(t *testing.T) {
	app := setupActivityAPI(t)
	metadata := `{"ip":"192.168.1.10"}`

	resp := createActivity(t, app, 123, map[string]interface{}{
		"activityType": "LOGIN",
		"description":  "User logged in from web",
		"metadata":     metadata,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created dto.ActivityResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotZero(t, created.ID)
	require.Equal(t, "LOGIN", created.ActivityType)
	require.NotNil(t, created.Metadata)
	require.Equal(t, metadata, *created.Metadata)

	resp = getTimeline(t, app, 123, "?page=0&size=20")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var timeline dto.TimelineResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&timeline))
	require.Equal(t, uint(123), timeline.UserID)
	require.GreaterOrEqual(t, timeline.TotalElements, int64(1))
	require.Equal(t, 1, timeline.TotalPages)

	found := false
	for _, activity := range timeline.Activities {
		if activity.ID == created.ID {
			found = true
			require.NotNil(t, activity.Metadata)
			require.Equal(t, metadata, *activity.Metadata, "metadata must round-trip unchanged")
		}
	}
	require.True(t, found, "created activity must appear on the timeline")
}

func TestCreateRejectsMissingActivityType(t *testing.T) {
	app := setupActivityAPI(t)

	resp := createActivity(t, app, 1, map[string]interface{}{
		"activityType": nil,
		"description":  "something happened",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body utils.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "Validation Failed", body.Error)
	require.NotEmpty(t, body.FieldErrors)
	require.Equal(t, "activityType", body.FieldErrors[0].Field)
}

func TestCreateRejectsMalformedMetadata(t *testing.T) {
	app := setupActivityAPI(t)

	resp := createActivity(t, app, 1, map[string]interface{}{
		"activityType": "LOGIN",
		"description":  "login",
		"metadata":     `{"ip": unquoted}`,
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body utils.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.FieldErrors, 1)
	require.Equal(t, "metadata", body.FieldErrors[0].Field)
}

func TestDeleteLifecycle(t *testing.T) {
	app := setupActivityAPI(t)

	resp := createActivity(t, app, 9, map[string]interface{}{
		"activityType": "LOGOUT",
		"description":  "User logged out",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created dto.ActivityResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	deleteURL := fmt.Sprintf("/api/v1/activities/%d", created.ID)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, deleteURL, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, deleteURL, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/activities/999999", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = getTimeline(t, app, 9, "?page=0&size=20")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var timeline dto.TimelineResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&timeline))
	require.Zero(t, timeline.TotalElements)
	for _, activity := range timeline.Activities {
		require.NotEqual(t, created.ID, activity.ID)
	}
}

func TestTimelinePaginationBounds(t *testing.T) {
	app := setupActivityAPI(t)

	cases := []struct {
		name  string
		query string
	}{
		{name: "size below minimum", query: "?page=0&size=0"},
		{name: "size above maximum", query: "?page=0&size=101"},
		{name: "negative page", query: "?page=-1&size=20"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := getTimeline(t, app, 1, tc.query)
			require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var body utils.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.NotEmpty(t, body.FieldErrors)
		})
	}
}

func TestTimelineOrderingAndPaging(t *testing.T) {
	app := setupActivityAPI(t)

	for i := 0; i < 5; i++ {
		resp := createActivity(t, app, 42, map[string]interface{}{
			"activityType": "PROFILE_UPDATE",
			"description":  fmt.Sprintf("update %d", i),
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp := getTimeline(t, app, 42, "?page=0&size=2")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var timeline dto.TimelineResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&timeline))
	require.Equal(t, int64(5), timeline.TotalElements)
	require.Equal(t, 3, timeline.TotalPages)
	require.Len(t, timeline.Activities, 2)

	for i := 1; i < len(timeline.Activities); i++ {
		prev := timeline.Activities[i-1]
		curr := timeline.Activities[i]
		require.False(t, prev.CreatedAt.Before(curr.CreatedAt), "timeline must be newest first")
		if prev.CreatedAt.Equal(curr.CreatedAt) {
			require.Greater(t, prev.ID, curr.ID)
		}
	}

	last := getTimeline(t, app, 42, "?page=2&size=2")
	require.Equal(t, fiber.StatusOK, last.StatusCode)
	require.NoError(t, json.NewDecoder(last.Body).Decode(&timeline))
	require.Len(t, timeline.Activities, 1)
}

func TestHealthEndpoints(t *testing.T) {
	app := setupActivityAPI(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health/db", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
