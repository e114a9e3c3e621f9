package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/keycaplendar/api/internal/api"
	"github.com/keycaplendar/api/internal/auth"
	"github.com/keycaplendar/api/internal/catalog"
	"github.com/keycaplendar/api/internal/mocks"
	"github.com/keycaplendar/api/internal/models"
	"github.com/keycaplendar/api/internal/service"
	"github.com/rs/zerolog"
)

type apiEnv struct {
	router  http.Handler
	tokens  *auth.Manager
	catalog *mocks.MockCatalogService
	audit   *mocks.MockAuditService
	authSvc *mocks.MockAuthService
	users   *mocks.MockUserService
}

func newAPIEnv() *apiEnv {
	env := &apiEnv{
		tokens:  auth.NewManager("test-secret", time.Hour),
		catalog: &mocks.MockCatalogService{},
		audit:   &mocks.MockAuditService{},
		authSvc: &mocks.MockAuthService{},
		users:   &mocks.MockUserService{},
	}
	services := &service.Services{
		Catalog: env.catalog,
		Audit:   env.audit,
		Auth:    env.authSvc,
		User:    env.users,
	}
	env.router = api.NewRouter(services, env.tokens, zerolog.Nop())
	return env
}

// bearerFor issues a token and maps its email onto an app user
func (env *apiEnv) bearerFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := env.tokens.Issue(user.Email, true)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	env.users.GetByEmailFunc = func(ctx context.Context, email string) (*models.User, error) {
		if email == user.Email {
			return user, nil
		}
		return nil, nil
	}
	return "Bearer " + token
}

func (env *apiEnv) do(method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	env := newAPIEnv()

	w := env.do("GET", "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", resp["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newAPIEnv()
	env.catalog.GetCountFunc = func(ctx context.Context, resource string) (int, error) {
		switch resource {
		case "keysets":
			return 12, nil
		case "changelog":
			return 34, nil
		case "users":
			return 5, nil
		}
		return 0, nil
	}

	w := env.do("GET", "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	database, ok := resp["database"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected database counts, got %v", resp)
	}
	if database["keysets"] != float64(12) || database["changelog"] != float64(34) || database["users"] != float64(5) {
		t.Errorf("Unexpected counts: %v", database)
	}
}

func TestAPIAuth(t *testing.T) {
	env := newAPIEnv()
	env.authSvc.IssueTokenFunc = func(ctx context.Context, key, secret string) (string, error) {
		if key == "key-1" && secret == "s3cret" {
			return "signed-token", nil
		}
		return "", service.ErrUnauthorized
	}

	w := env.do("POST", "/apiAuth", "", map[string]string{"key": "key-1", "secret": "s3cret"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["token"] != "signed-token" {
		t.Errorf("Expected issued token in response, got %v", resp)
	}

	for name, body := range map[string]interface{}{
		"wrong secret": map[string]string{"key": "key-1", "secret": "guess"},
		"empty fields": map[string]string{},
		"invalid body": "not json",
	} {
		w := env.do("POST", "/apiAuth", "", body)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, w.Code)
		}
		var resp map[string]string
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["error"] != "Unauthorized" {
			t.Errorf("%s: expected Unauthorized error body, got %v", name, resp)
		}
	}
}

func TestExternalAPIRequiresBearer(t *testing.T) {
	env := newAPIEnv()

	for _, path := range []string{"/getAllKeysets", "/getKeysetsByPage/calendar", "/getKeysetById?id=x"} {
		w := env.do("GET", path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s without token: expected 401, got %d", path, w.Code)
		}

		w = env.do("GET", path, "Bearer garbage", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s with garbage token: expected 401, got %d", path, w.Code)
		}
		var resp map[string]string
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["error"] != "Unauthorized" {
			t.Errorf("%s: expected Unauthorized error body, got %v", path, resp)
		}
	}
}

func TestGetAllKeysets(t *testing.T) {
	env := newAPIEnv()
	token, _ := env.tokens.Issue("api@example.com", true)

	var gotFilter, gotLower, gotUpper string
	env.catalog.GetAllFunc = func(ctx context.Context, dateFilter, lower, upper string) ([]models.Keyset, error) {
		gotFilter, gotLower, gotUpper = dateFilter, lower, upper
		return []models.Keyset{{ID: "ks-1", Profile: "GMK", Colorway: "Alpha"}}, nil
	}

	w := env.do("GET", "/getAllKeysets?dateFilter=gbLaunch&date=2024-01-01&before=2024-02-01", "Bearer "+token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotFilter != "gbLaunch" || gotLower != "2024-01-01" || gotUpper != "2024-02-01" {
		t.Errorf("Query parameters not forwarded: %s %s %s", gotFilter, gotLower, gotUpper)
	}

	var keysets []models.Keyset
	json.Unmarshal(w.Body.Bytes(), &keysets)
	if len(keysets) != 1 || keysets[0].ID != "ks-1" {
		t.Errorf("Unexpected payload: %s", w.Body.String())
	}
}

func TestGetKeysetsByPage(t *testing.T) {
	env := newAPIEnv()
	token, _ := env.tokens.Issue("api@example.com", true)

	var gotPage catalog.Page
	var gotWl models.Whitelist
	env.catalog.GetByPageFunc = func(ctx context.Context, page catalog.Page, wl models.Whitelist, today time.Time) ([]models.Keyset, error) {
		gotPage, gotWl = page, wl
		return nil, nil
	}

	w := env.do("GET", "/getKeysetsByPage/live?profiles=GMK,SA&vendorMode=include&vendors=Omnitype", "Bearer "+token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotPage != catalog.PageLive {
		t.Errorf("Expected live page, got %s", gotPage)
	}
	if len(gotWl.Profiles) != 2 || gotWl.VendorMode != "include" || len(gotWl.Vendors) != 1 {
		t.Errorf("Whitelist not parsed from query: %+v", gotWl)
	}
	// nil service result renders as an empty array, not null
	if w.Body.String() != "[]" {
		t.Errorf("Expected empty array body, got %s", w.Body.String())
	}
}

func TestGetKeysetsByPage_UnknownPage(t *testing.T) {
	env := newAPIEnv()
	token, _ := env.tokens.Issue("api@example.com", true)

	w := env.do("GET", "/getKeysetsByPage/bogus", "Bearer "+token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown page, got %d", w.Code)
	}

	// Membership views are app-only, not addressable here
	w = env.do("GET", "/getKeysetsByPage/favorites", "Bearer "+token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for favorites page, got %d", w.Code)
	}
}

func TestGetKeysetsByPage_Grouped(t *testing.T) {
	env := newAPIEnv()
	token, _ := env.tokens.Issue("api@example.com", true)

	env.catalog.GetByPageGroupedFunc = func(ctx context.Context, page catalog.Page, groupBy catalog.GroupBy, wl models.Whitelist, today time.Time) ([]catalog.Group, error) {
		return []catalog.Group{{Title: "January 2024"}}, nil
	}

	w := env.do("GET", "/getKeysetsByPage/timeline?groupBy=month", "Bearer "+token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var groups []catalog.Group
	json.Unmarshal(w.Body.Bytes(), &groups)
	if len(groups) != 1 || groups[0].Title != "January 2024" {
		t.Errorf("Unexpected grouped payload: %s", w.Body.String())
	}

	w = env.do("GET", "/getKeysetsByPage/timeline?groupBy=color", "Bearer "+token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown groupBy, got %d", w.Code)
	}
}

func TestGetKeysetByID(t *testing.T) {
	env := newAPIEnv()
	token, _ := env.tokens.Issue("api@example.com", true)

	env.catalog.GetByIDFunc = func(ctx context.Context, id string) (*models.Keyset, error) {
		if id == "ks-1" {
			return &models.Keyset{ID: "ks-1", Profile: "GMK", Colorway: "Alpha"}, nil
		}
		return nil, nil
	}

	w := env.do("GET", "/getKeysetById?id=ks-1", "Bearer "+token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	w = env.do("GET", "/getKeysetById?id=missing", "Bearer "+token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown id, got %d", w.Code)
	}
	w = env.do("GET", "/getKeysetById", "Bearer "+token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing id, got %d", w.Code)
	}
}

func TestAuditEndpoint(t *testing.T) {
	env := newAPIEnv()

	var gotLimit int
	env.audit.GetPublicAuditFunc = func(ctx context.Context, limit int) ([]models.PublicAction, error) {
		gotLimit = limit
		return nil, nil
	}

	// Public, no token needed
	w := env.do("GET", "/audit", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if gotLimit != 25 {
		t.Errorf("Expected default limit 25, got %d", gotLimit)
	}
	if w.Body.String() != "[]" {
		t.Errorf("Expected empty array body, got %s", w.Body.String())
	}

	w = env.do("GET", "/audit?limit=5", "", nil)
	if gotLimit != 5 {
		t.Errorf("Expected limit 5, got %d", gotLimit)
	}

	for _, raw := range []string{"0", "-1", "abc"} {
		w = env.do("GET", "/audit?limit="+raw, "", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected 400, got %d", raw, w.Code)
		}
	}
}

func TestAppSurfaceNeedsKnownUser(t *testing.T) {
	env := newAPIEnv()
	token, _ := env.tokens.Issue("ghost@example.com", true)

	// No app user maps onto the token's email
	w := env.do("POST", "/keysets", "Bearer "+token, map[string]string{"profile": "GMK"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Token for unknown app user: expected 401, got %d", w.Code)
	}
}

func TestCreateKeyset(t *testing.T) {
	env := newAPIEnv()
	editor := &models.User{ID: "u-1", Email: "editor@example.com", Editor: true}
	bearer := env.bearerFor(t, editor)

	env.catalog.CreateFunc = func(ctx context.Context, req *models.KeysetRequest, actor *models.User) (*models.Keyset, error) {
		if actor.ID != "u-1" {
			t.Errorf("Expected resolved app user, got %+v", actor)
		}
		return &models.Keyset{ID: "ks-new", Profile: req.Profile, Colorway: req.Colorway}, nil
	}

	w := env.do("POST", "/keysets", bearer, models.KeysetRequest{
		Profile: "GMK", Colorway: "Alpha", Designer: []string{"RedSuns"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var ks models.Keyset
	json.Unmarshal(w.Body.Bytes(), &ks)
	if ks.ID != "ks-new" {
		t.Errorf("Unexpected payload: %s", w.Body.String())
	}
}

func TestServiceErrorMapping(t *testing.T) {
	env := newAPIEnv()
	bearer := env.bearerFor(t, &models.User{ID: "u-1", Email: "p@example.com"})

	cases := []struct {
		kind string
		want int
	}{
		{service.KindPermissionDenied, http.StatusForbidden},
		{service.KindInvalidArgument, http.StatusBadRequest},
		{service.KindNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		env.catalog.DeleteFunc = func(ctx context.Context, id string, actor *models.User) error {
			return service.NewError(tc.kind, "nope")
		}
		w := env.do("DELETE", "/keysets/ks-1", bearer, nil)
		if w.Code != tc.want {
			t.Errorf("Kind %s: expected %d, got %d", tc.kind, tc.want, w.Code)
		}
		var resp map[string]string
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["error"] != "nope" {
			t.Errorf("Kind %s: expected service message, got %v", tc.kind, resp)
		}
	}
}

func TestListUsersAdminOnly(t *testing.T) {
	env := newAPIEnv()

	bearer := env.bearerFor(t, &models.User{ID: "u-1", Email: "p@example.com"})
	w := env.do("GET", "/users", bearer, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("Non-admin listing users: expected 403, got %d", w.Code)
	}

	env.users.ListFunc = func(ctx context.Context, limit, offset int) ([]models.User, int, error) {
		return []models.User{{ID: "u-1"}}, 1, nil
	}
	bearer = env.bearerFor(t, &models.User{ID: "u-2", Email: "a@example.com", Admin: true})
	w = env.do("GET", "/users?limit=10", bearer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Admin listing users: expected 200, got %d", w.Code)
	}
	var resp struct {
		Users []models.User `json:"users"`
		Total int           `json:"total"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Users) != 1 || resp.Total != 1 {
		t.Errorf("Unexpected payload: %s", w.Body.String())
	}
}

func TestPresetEndpoints(t *testing.T) {
	env := newAPIEnv()
	bearer := env.bearerFor(t, &models.User{ID: "u-1", Email: "p@example.com"})

	env.users.SavePresetFunc = func(ctx context.Context, req *models.PresetRequest, actor *models.User) (*models.Preset, error) {
		return &models.Preset{ID: "pr-1", Name: req.Name}, nil
	}
	w := env.do("PUT", "/presets", bearer, models.PresetRequest{Name: "EU only"})
	if w.Code != http.StatusOK {
		t.Fatalf("SavePreset: expected 200, got %d", w.Code)
	}

	env.users.ListPresetsFunc = func(ctx context.Context, email string) ([]models.Preset, error) {
		return []models.Preset{{ID: "pr-1", Name: "EU only"}}, nil
	}
	w = env.do("GET", "/presets", bearer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ListPresets: expected 200, got %d", w.Code)
	}
	var presets []models.Preset
	json.Unmarshal(w.Body.Bytes(), &presets)
	if len(presets) != 1 || presets[0].ID != "pr-1" {
		t.Errorf("Unexpected payload: %s", w.Body.String())
	}

	env.users.DeletePresetFunc = func(ctx context.Context, id string, actor *models.User) error {
		return nil
	}
	w = env.do("DELETE", "/presets/pr-1", bearer, nil)
	if w.Code != http.StatusOK {
		t.Errorf("DeletePreset: expected 200, got %d", w.Code)
	}
}
