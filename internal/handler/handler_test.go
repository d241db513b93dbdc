package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/middleware"
	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

// asUser stands in for JWTAuth
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextEmail, userID+"@example.com")
		c.Next()
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(models.Validation("x")))
	assert.Equal(t, http.StatusUnauthorized, statusFor(models.Unauthenticated("x")))
	assert.Equal(t, http.StatusNotFound, statusFor(models.NotFound("x")))
	assert.Equal(t, http.StatusConflict, statusFor(models.Conflict("x")))
	assert.Equal(t, http.StatusBadGateway, statusFor(models.Upstream("x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

type fakeAggregator struct {
	points []models.HeatmapPoint
	err    error
}

func (f fakeAggregator) Aggregate(ctx context.Context, now time.Time) ([]models.HeatmapPoint, error) {
	return f.points, f.err
}

func TestHeatmapHandler(t *testing.T) {
	r := gin.New()
	r.GET("/api/heatmap", NewHeatmapHandler(fakeAggregator{points: []models.HeatmapPoint{
		{Latitude: 18.52, Longitude: 73.85, Weight: 0.8, Type: models.PointTypeCrime, Location: "Swargate"},
	}}, zap.NewNop()).GetHeatmap)

	w, body := doJSON(t, r, http.MethodGet, "/api/heatmap", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "crime", data[0].(map[string]interface{})["type"])
}

func TestHeatmapHandler_EmptyIsArray(t *testing.T) {
	r := gin.New()
	r.GET("/api/heatmap", NewHeatmapHandler(fakeAggregator{}, zap.NewNop()).GetHeatmap)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/heatmap", nil))
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestHeatmapHandler_Error(t *testing.T) {
	r := gin.New()
	r.GET("/api/heatmap", NewHeatmapHandler(fakeAggregator{err: errors.New("database is locked")}, zap.NewNop()).GetHeatmap)

	w, body := doJSON(t, r, http.MethodGet, "/api/heatmap", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Error fetching heatmap data: database is locked", body["message"])
	assert.NotContains(t, body, "data")
}

type fakeAuth struct {
	registerErr error
	loginErr    error
}

func (f fakeAuth) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: "u1", Name: req.Name, Email: req.Email, PasswordHash: "hash"}, nil
}

func (f fakeAuth) Login(ctx context.Context, req models.LoginRequest) (string, *models.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return "tok", &models.User{ID: "u1", Email: req.Email}, nil
}

func TestAuthHandler(t *testing.T) {
	r := gin.New()
	h := NewAuthHandler(fakeAuth{}, zap.NewNop())
	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)

	w, body := doJSON(t, r, http.MethodPost, "/api/register", gin.H{"name": "Asha", "email": "a@example.com"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User registered successfully", body["message"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "u1", user["_id"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "PasswordHash")

	w, body = doJSON(t, r, http.MethodPost, "/api/login", gin.H{"email": "a@example.com", "password": "x"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok", body["token"])
	assert.Equal(t, "Login successful", body["message"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/login", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Errors(t *testing.T) {
	r := gin.New()
	h := NewAuthHandler(fakeAuth{
		registerErr: models.Conflict("User with this email already exists"),
		loginErr:    models.Unauthenticated("Invalid email or password"),
	}, zap.NewNop())
	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)

	w, body := doJSON(t, r, http.MethodPost, "/api/register", gin.H{})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User with this email already exists", body["message"])

	w, body = doJSON(t, r, http.MethodPost, "/api/login", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, body["success"])
}

type fakeContacts struct {
	store map[string]models.TrustedContact
}

func (f *fakeContacts) List(ctx context.Context, userID string) ([]models.TrustedContact, error) {
	var out []models.TrustedContact
	for _, c := range f.store {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContacts) Add(ctx context.Context, userID string, in models.ContactInput) (*models.TrustedContact, error) {
	c := models.TrustedContact{ID: "c1", UserID: userID, Name: in.Name, Phone: in.Phone, Relation: in.Relation}
	f.store[c.ID] = c
	return &c, nil
}

func (f *fakeContacts) Update(ctx context.Context, userID, id string, in models.ContactUpdate) (*models.TrustedContact, error) {
	c, ok := f.store[id]
	if !ok || c.UserID != userID {
		return nil, models.NotFound("Contact not found")
	}
	return &c, nil
}

func (f *fakeContacts) Delete(ctx context.Context, userID, id string) error {
	c, ok := f.store[id]
	if !ok || c.UserID != userID {
		return models.NotFound("Contact not found")
	}
	delete(f.store, id)
	return nil
}

func TestContactHandler(t *testing.T) {
	h := NewContactHandler(&fakeContacts{store: map[string]models.TrustedContact{}}, zap.NewNop())
	r := gin.New()
	g := r.Group("/api/contacts", asUser("u1"))
	g.GET("", h.List)
	g.POST("", h.Add)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	other := r.Group("/other", asUser("u2"))
	other.DELETE("/:id", h.Delete)

	w, body := doJSON(t, r, http.MethodGet, "/api/contacts", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, body["contacts"])

	w, body = doJSON(t, r, http.MethodPost, "/api/contacts", gin.H{"name": "Ravi", "phone": "9000000000", "relation": "Friend"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Ravi", body["contact"].(map[string]interface{})["name"])

	w, _ = doJSON(t, r, http.MethodDelete, "/other/c1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/contacts/c1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

type fakeEmergency struct {
	alert *models.SOSAlert
	err   error
	count int
}

func (f fakeEmergency) SendSOS(ctx context.Context, userID string, req models.SOSRequest) (*models.SOSAlert, error) {
	return f.alert, f.err
}

func (f fakeEmergency) ShareLocation(ctx context.Context, userID string, req models.LocationShareRequest) (int, error) {
	return f.count, f.err
}

func (f fakeEmergency) History(ctx context.Context, userID string, limit int) ([]models.SOSAlert, error) {
	return []models.SOSAlert{{ID: "s1", UserID: userID}}, f.err
}

func TestEmergencyHandler_SOS(t *testing.T) {
	alert := &models.SOSAlert{ID: "s1", ContactsNotified: 2, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}

	r := gin.New()
	r.POST("/sos", asUser("u1"), NewEmergencyHandler(fakeEmergency{alert: alert}, zap.NewNop()).SendSOS)

	w, body := doJSON(t, r, http.MethodPost, "/sos", gin.H{"location": gin.H{"latitude": 18.5, "longitude": 73.8}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SOS alert sent successfully", body["message"])
	assert.Equal(t, "s1", body["sos_id"])
	assert.Equal(t, float64(2), body["contacts_notified"])
	assert.Equal(t, "2026-01-02T03:04:05Z", body["timestamp"])
}

func TestEmergencyHandler_GatewayFailure(t *testing.T) {
	r := gin.New()
	r.POST("/sos", asUser("u1"), NewEmergencyHandler(fakeEmergency{
		alert: &models.SOSAlert{ID: "s1"},
		err:   models.Upstream("Failed to deliver SOS alert"),
	}, zap.NewNop()).SendSOS)

	w, body := doJSON(t, r, http.MethodPost, "/sos", gin.H{})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "s1", body["sos_id"])
	assert.Equal(t, false, body["success"])
}

func TestEmergencyHandler_ShareLocation(t *testing.T) {
	r := gin.New()
	r.POST("/share", asUser("u1"), NewEmergencyHandler(fakeEmergency{count: 3}, zap.NewNop()).SendLocation)

	w, body := doJSON(t, r, http.MethodPost, "/share", gin.H{"location": gin.H{"latitude": 18.5, "longitude": 73.8}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Location shared with emergency contacts", body["message"])
	assert.Equal(t, float64(3), body["contacts_notified"])
}

func TestEmergencyHandler_History(t *testing.T) {
	r := gin.New()
	r.GET("/history", asUser("u1"), NewEmergencyHandler(fakeEmergency{}, zap.NewNop()).History)

	w, body := doJSON(t, r, http.MethodGet, "/history?limit=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["alerts"], 1)
}

type fakePolls struct {
	got *models.PollSubmission
}

func (f *fakePolls) Submit(ctx context.Context, sub models.PollSubmission) (*models.PollRecord, error) {
	f.got = &sub
	return &models.PollRecord{ID: "p1", Location: *sub.Location, UnsafeVotes: 1}, nil
}

func (f *fakePolls) List(ctx context.Context) ([]models.PollRecord, error) {
	return nil, nil
}

func TestPollHandler_Submit(t *testing.T) {
	polls := &fakePolls{}
	h := NewPollHandler(polls, zap.NewNop())
	r := gin.New()
	r.POST("/api/safety-poll", h.Submit)
	r.GET("/api/safety-polls", h.List)

	w, body := doJSON(t, r, http.MethodPost, "/api/safety-poll", gin.H{
		"location": "FC Road", "latitude": 18.52, "longitude": 73.84, "is_safe": false, "comment": "dark lane",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Safety poll submitted successfully", body["message"])
	require.NotNil(t, polls.got)
	assert.Equal(t, "dark lane", polls.got.Comment)
	assert.False(t, *polls.got.IsSafe)

	w, body = doJSON(t, r, http.MethodGet, "/api/safety-polls", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, body["data"])
}

func TestPollHandler_Validation(t *testing.T) {
	cases := []struct {
		name string
		body gin.H
		msg  string
	}{
		{"missing location", gin.H{"latitude": 1.0, "longitude": 2.0, "is_safe": true}, "location is required"},
		{"missing is_safe", gin.H{"location": "x", "latitude": 1.0, "longitude": 2.0}, "is_safe is required"},
		{"string latitude", gin.H{"location": "x", "latitude": "18.5", "longitude": 2.0, "is_safe": true}, "Latitude and longitude must be numbers"},
		{"string is_safe", gin.H{"location": "x", "latitude": 1.0, "longitude": 2.0, "is_safe": "yes"}, "is_safe must be a boolean value"},
	}

	r := gin.New()
	r.POST("/api/safety-poll", NewPollHandler(&fakePolls{}, zap.NewNop()).Submit)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := doJSON(t, r, http.MethodPost, "/api/safety-poll", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.msg, body["message"])
		})
	}
}

type fakeNews struct{}

func (fakeNews) Submit(ctx context.Context, sub models.NewsSubmission) (*models.NewsRecord, error) {
	return &models.NewsRecord{ID: "n1", Headline: sub.Headline, Location: sub.Location}, nil
}

func (fakeNews) Recent(ctx context.Context, days int) ([]models.NewsRecord, error) {
	if days > service.MaxNewsDays {
		return nil, models.Validation("days must be between 1 and 365")
	}
	return []models.NewsRecord{{ID: "n1"}}, nil
}

func TestNewsHandler(t *testing.T) {
	h := NewNewsHandler(fakeNews{}, zap.NewNop())
	r := gin.New()
	r.POST("/api/news", h.Submit)
	r.GET("/api/news", h.Recent)

	w, _ := doJSON(t, r, http.MethodPost, "/api/news", gin.H{"headline": "Theft", "location": "Camp"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/news", gin.H{"headline": "Theft"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := doJSON(t, r, http.MethodGet, "/api/news?days=7", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 1)

	w, _ = doJSON(t, r, http.MethodGet, "/api/news?days=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/news?days=999", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakeVerifier struct {
	status *models.Verification
}

func (f fakeVerifier) Submit(ctx context.Context, req models.VerificationRequest) (*models.Verification, error) {
	if req.UserID == "ghost" {
		return nil, models.NotFound("User not found")
	}
	return &models.Verification{ID: "v1", Status: models.VerificationPending}, nil
}

func (f fakeVerifier) Status(ctx context.Context, userID string) (*models.Verification, error) {
	return f.status, nil
}

func TestVerificationHandler(t *testing.T) {
	h := NewVerificationHandler(fakeVerifier{status: &models.Verification{Status: models.VerificationNotSubmitted}}, zap.NewNop())
	r := gin.New()
	r.POST("/api/verify-image", h.VerifyImage)
	r.GET("/api/verification-status/:user_id", h.Status)

	w, body := doJSON(t, r, http.MethodPost, "/api/verify-image", gin.H{"user_id": "u1", "image_data": "aGk="})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v1", body["verification_id"])
	assert.Equal(t, "pending", body["verification_status"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/verify-image", gin.H{"user_id": "ghost", "image_data": "aGk="})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = doJSON(t, r, http.MethodGet, "/api/verification-status/u1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "not_submitted", body["verification_status"])
	assert.Nil(t, body["submitted_at"])
}

type fakeLegal struct{}

func (fakeLegal) Ask(ctx context.Context, question string) (*models.LegalAnswer, error) {
	if question == "" {
		return nil, models.Validation("Question cannot be empty")
	}
	return &models.LegalAnswer{Question: question, Answer: "a", Sources: []string{"ipc.txt (chunk 1)"}}, nil
}

func (fakeLegal) Health() service.LegalHealth {
	return service.LegalHealth{Status: "healthy", DocumentsCount: 4, GeneratorInitialized: true}
}

func TestLegalHandler(t *testing.T) {
	h := NewLegalHandler(fakeLegal{}, zap.NewNop())
	r := gin.New()
	r.POST("/api/legal/ask", h.Ask)
	r.GET("/api/legal/health", h.Health)

	w, body := doJSON(t, r, http.MethodPost, "/api/legal/ask", gin.H{"question": "What is 354?"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["error"])
	assert.Equal(t, []interface{}{"ipc.txt (chunk 1)"}, body["sources"])

	w, body = doJSON(t, r, http.MethodPost, "/api/legal/ask", gin.H{"question": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Question cannot be empty", body["message"])

	w, body = doJSON(t, r, http.MethodGet, "/api/legal/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), body["documents_count"])
}

type fakeTasks struct{}

func (fakeTasks) CreateTask(ctx context.Context, createdBy string) (*models.GeocodingTask, error) {
	return &models.GeocodingTask{ID: 1, Status: models.TaskStatusPending, CreatedBy: createdBy}, nil
}

func (fakeTasks) GetTask(ctx context.Context, id int) (*models.GeocodingTask, error) {
	if id != 1 {
		return nil, models.NotFound("Geocoding task not found")
	}
	return &models.GeocodingTask{ID: 1}, nil
}

func (fakeTasks) ListTasks(ctx context.Context, status string, limit, offset int) ([]*models.GeocodingTask, error) {
	return nil, nil
}

func (fakeTasks) CancelTask(ctx context.Context, id int) error {
	return models.Validation("task is already in terminal state: completed")
}

func TestGeocodingHandler(t *testing.T) {
	h := NewGeocodingHandler(fakeTasks{}, zap.NewNop())
	r := gin.New()
	g := r.Group("/tasks", asUser("admin"))
	g.POST("", h.CreateTask)
	g.GET("", h.ListTasks)
	g.GET("/:id", h.GetTask)
	g.DELETE("/:id", h.CancelTask)

	w, body := doJSON(t, r, http.MethodPost, "/tasks", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "admin@example.com", body["data"].(map[string]interface{})["created_by"])

	w, _ = doJSON(t, r, http.MethodGet, "/tasks/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, "/tasks/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = doJSON(t, r, http.MethodGet, "/tasks?limit=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), body["data"].(map[string]interface{})["limit"])

	w, _ = doJSON(t, r, http.MethodDelete, "/tasks/1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }

func TestHealthHandler(t *testing.T) {
	r := gin.New()
	r.GET("/", NewHealthHandler(fakePinger{}).Root)
	r.GET("/up", NewHealthHandler(fakePinger{}).Health)
	r.GET("/down", NewHealthHandler(fakePinger{err: errors.New("closed")}).Health)

	_, body := doJSON(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, "SafeGuard Backend API", body["message"])

	_, body = doJSON(t, r, http.MethodGet, "/up", nil)
	assert.Equal(t, "connected", body["database"])
	_, body = doJSON(t, r, http.MethodGet, "/down", nil)
	assert.Equal(t, "disconnected", body["database"])
}
