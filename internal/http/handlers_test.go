package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/activity-portal/internal/application"
	"github.com/example/activity-portal/internal/auth"
)

type activityServiceStub struct {
	activities []application.Activity
	upcoming   []application.Occurrence
	err        error

	lastToken string
	lastID    string
	lastLimit int
}

func (s *activityServiceStub) ListActivities(ctx context.Context) ([]application.Activity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.activities, nil
}

func (s *activityServiceStub) ListUpcoming(ctx context.Context, limit int) ([]application.Occurrence, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	if len(s.upcoming) > limit {
		return s.upcoming[:limit], nil
	}
	return s.upcoming, nil
}

func (s *activityServiceStub) CreateActivity(ctx context.Context, token string, input application.ActivityInput) (application.Activity, error) {
	s.lastToken = token
	if s.err != nil {
		return application.Activity{}, s.err
	}
	return application.Activity{ID: "a-1", Title: input.Title, Weekday: input.Weekday, StartHour: input.StartHour, EndHour: input.EndHour}, nil
}

func (s *activityServiceStub) UpdateActivity(ctx context.Context, token, id string, input application.ActivityInput) (application.Activity, error) {
	s.lastToken = token
	s.lastID = id
	if s.err != nil {
		return application.Activity{}, s.err
	}
	return application.Activity{ID: id, Title: input.Title}, nil
}

func (s *activityServiceStub) DeleteActivity(ctx context.Context, token, id string) error {
	s.lastToken = token
	s.lastID = id
	return s.err
}

type authServiceStub struct {
	result application.LoginResult
	err    error
}

func (s *authServiceStub) Login(ctx context.Context, params application.LoginParams) (application.LoginResult, error) {
	if s.err != nil {
		return application.LoginResult{}, s.err
	}
	return s.result, nil
}

func newTestRouter(activities *activityServiceStub, auths *authServiceStub) http.Handler {
	cfg := RouterConfig{
		Activities: NewActivityHandler(activities, 5, nil),
	}
	if auths != nil {
		cfg.Auth = NewAuthHandler(auths, nil)
	}
	return NewRouter(cfg)
}

func TestListActivities_OK(t *testing.T) {
	t.Parallel()

	stub := &activityServiceStub{activities: []application.Activity{
		{ID: "a-1", Title: "Reforço", Weekday: "Tuesday", StartHour: "14:00", EndHour: "16:00"},
	}}
	router := newTestRouter(stub, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activities", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp listActivitiesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Activities) != 1 || resp.Activities[0].Title != "Reforço" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestUpcoming_LimitHandling(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	stub := &activityServiceStub{upcoming: []application.Occurrence{
		{Activity: application.Activity{ID: "a-2", Title: "Dança"}, Start: start},
	}}
	router := newTestRouter(stub, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activities/upcoming", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if stub.lastLimit != 5 {
		t.Fatalf("default limit = %d, want 5", stub.lastLimit)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activities/upcoming?limit=2", nil))
	if stub.lastLimit != 2 {
		t.Fatalf("limit = %d, want 2", stub.lastLimit)
	}

	var resp listUpcomingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Upcoming) != 1 || resp.Upcoming[0].Start != start.Format(time.RFC3339) {
		t.Fatalf("unexpected body: %+v", resp)
	}

	for _, bad := range []string{"0", "-1", "abc"} {
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activities/upcoming?limit="+bad, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("limit=%q: status = %d, want 400", bad, rec.Code)
		}
	}
}

func TestCreateActivity_PassesTokenThrough(t *testing.T) {
	t.Parallel()

	stub := &activityServiceStub{}
	router := newTestRouter(stub, nil)

	body := `{"title":"Reforço","weekday":"Tuesday","start_hour":"14:00","end_hour":"16:00"}`

	req := httptest.NewRequest(http.MethodPost, "/activities", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer header-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if stub.lastToken != "header-token" {
		t.Fatalf("token = %q, want header-token", stub.lastToken)
	}

	req = httptest.NewRequest(http.MethodPost, "/activities", strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "cookie-token"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if stub.lastToken != "cookie-token" {
		t.Fatalf("token = %q, want cookie-token", stub.lastToken)
	}
}

func TestServiceErrorMapping(t *testing.T) {
	t.Parallel()

	vErr := &application.ValidationError{FieldErrors: map[string]string{"title": "title is required"}}

	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "missing token", err: auth.ErrMissingToken, wantStatus: http.StatusUnauthorized},
		{name: "invalid token", err: auth.ErrInvalidToken, wantStatus: http.StatusUnauthorized},
		{name: "expired token", err: auth.ErrExpired, wantStatus: http.StatusUnauthorized},
		{name: "forbidden", err: application.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "not found", err: application.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "duplicate", err: application.ErrDuplicateActivity, wantStatus: http.StatusConflict},
		{name: "validation", err: vErr, wantStatus: http.StatusUnprocessableEntity},
		{name: "internal", err: context.DeadlineExceeded, wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			stub := &activityServiceStub{err: tc.err}
			router := newTestRouter(stub, nil)

			req := httptest.NewRequest(http.MethodDelete, "/activities/a-1", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantStatus == http.StatusInternalServerError && strings.Contains(rec.Body.String(), "deadline") {
				t.Fatal("internal error details must not leak to callers")
			}
		})
	}
}

func TestUpdateActivity_ResolvesIDFromPath(t *testing.T) {
	t.Parallel()

	stub := &activityServiceStub{}
	router := newTestRouter(stub, nil)

	body := `{"title":"Dança","weekday":"Thursday","start_hour":"09:00","end_hour":"10:00"}`
	req := httptest.NewRequest(http.MethodPut, "/activities/a-7", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if stub.lastID != "a-7" {
		t.Fatalf("id = %q, want a-7", stub.lastID)
	}
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	t.Parallel()

	expires := time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC)
	auths := &authServiceStub{result: application.LoginResult{
		User:      application.User{ID: "u-1", Email: "admin@example.org", DisplayName: "Coordenadora", IsAdmin: true},
		Token:     "signed-token",
		ExpiresAt: expires,
	}}
	router := newTestRouter(&activityServiceStub{}, auths)

	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"email":"admin@example.org","password":"segredo"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var found bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value == "signed-token" {
			found = true
			if !cookie.HttpOnly {
				t.Fatal("session cookie must be http-only")
			}
		}
	}
	if !found {
		t.Fatal("expected the session cookie to be set")
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token != "signed-token" || !resp.User.IsAdmin {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&activityServiceStub{}, &authServiceStub{err: application.ErrInvalidCredentials})

	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"email":"x@example.org","password":"errada"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&activityServiceStub{}, &authServiceStub{})

	req := httptest.NewRequest(http.MethodDelete, "/sessions/current", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	var cleared bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected the session cookie to be cleared")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&activityServiceStub{}, &authServiceStub{})

	req := httptest.NewRequest(http.MethodPatch, "/activities", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodGet) {
		t.Fatalf("Allow header = %q", allow)
	}
}
