package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-dashboard/internal/config"
	"github.com/jrsteele09/go-dashboard/oauth2"
	"github.com/jrsteele09/go-dashboard/oauthmodel"
	"github.com/jrsteele09/go-dashboard/resources"
	"github.com/jrsteele09/go-dashboard/server"
	"github.com/jrsteele09/go-dashboard/token"
	"github.com/jrsteele09/go-dashboard/users"
	"github.com/stretchr/testify/require"
)

const testConfig = `
env: TEST
seed_data: true
allowed_origins: http://localhost:5173
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)

	issuer := token.NewIssuer(token.NewHMACSigner("test-secret"), token.WithTokenExpiry(time.Hour))
	s, err := server.New(cfg, server.NewInMemoryRepos(nil), issuer)
	require.NoError(t, err)

	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts
}

// call sends a JSON request and decodes the response body into out when
// out is non-nil.
func call(t *testing.T, method, url, accessToken string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func login(t *testing.T, ts *httptest.Server) string {
	t.Helper()

	var resp oauth2.TokenResponse
	status := call(t, http.MethodPost, ts.URL+server.RouteLogin, "", oauthmodel.LoginRequest{
		Email:    server.DemoUserEmail,
		Password: server.DemoUserPassword,
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, 3600, resp.ExpiresIn)
	return resp.AccessToken
}

func TestLoginAndMe(t *testing.T) {
	ts := newTestServer(t)
	accessToken := login(t, ts)

	var user users.User
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, ts.URL+server.RouteAuthMe, accessToken, nil, &user))
	require.Equal(t, server.DemoUserEmail, user.Email)
	require.Equal(t, server.DemoUserName, user.Name)
}

func TestLoginErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name     string
		req      oauthmodel.LoginRequest
		status   int
		expected string
	}{
		{"wrong password", oauthmodel.LoginRequest{Email: server.DemoUserEmail, Password: "nope"}, http.StatusUnauthorized, "Invalid credentials"},
		{"unknown user", oauthmodel.LoginRequest{Email: "who@example.com", Password: "Password123"}, http.StatusUnauthorized, "Invalid credentials"},
		{"missing email", oauthmodel.LoginRequest{Password: "Password123"}, http.StatusUnprocessableEntity, "The email field is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errResp oauthmodel.ErrorResponse
			require.Equal(t, tt.status, call(t, http.MethodPost, ts.URL+server.RouteLogin, "", tt.req, &errResp))
			require.Equal(t, tt.expected, errResp.Error)
		})
	}
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)
	url := ts.URL + server.RouteRegister

	var errResp oauthmodel.ErrorResponse
	status := call(t, http.MethodPost, url, "", oauthmodel.RegisterRequest{
		Name: "Grace", Email: "grace@example.com", Password: "Password123", PasswordConfirmation: "Password124",
	}, &errResp)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, "The password field confirmation does not match.", errResp.Message)

	status = call(t, http.MethodPost, url, "", oauthmodel.RegisterRequest{
		Name: "Grace", Email: "grace@example.com", Password: "password", PasswordConfirmation: "password",
	}, &errResp)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Contains(t, errResp.Message, "password must")

	var resp oauth2.TokenResponse
	req := oauthmodel.RegisterRequest{Name: "Grace", Email: "grace@example.com", Password: "Password123", PasswordConfirmation: "Password123"}
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, url, "", req, &resp))
	require.NotEmpty(t, resp.AccessToken)

	var user users.User
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, ts.URL+server.RouteAuthMe, resp.AccessToken, nil, &user))
	require.Equal(t, "grace@example.com", user.Email)

	errResp = oauthmodel.ErrorResponse{}
	require.Equal(t, http.StatusUnprocessableEntity, call(t, http.MethodPost, url, "", req, &errResp))
	require.Equal(t, "The email has already been taken.", errResp.Message)
}

func TestRefreshRevokesPresentedToken(t *testing.T) {
	ts := newTestServer(t)
	accessToken := login(t, ts)

	var resp oauth2.TokenResponse
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, ts.URL+server.RouteAuthRefreshToken, accessToken, nil, &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEqual(t, accessToken, resp.AccessToken)

	require.Equal(t, http.StatusUnauthorized, call(t, http.MethodPost, ts.URL+server.RouteAuthMe, accessToken, nil, nil))
	require.Equal(t, http.StatusUnauthorized, call(t, http.MethodPost, ts.URL+server.RouteAuthRefreshToken, accessToken, nil, nil))
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, ts.URL+server.RouteAuthMe, resp.AccessToken, nil, nil))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	for _, route := range []string{"/projects", "/tasks/1", "/inventory-items", server.RouteDashboardMetrics} {
		var errResp oauthmodel.ErrorResponse
		require.Equal(t, http.StatusUnauthorized, call(t, http.MethodGet, ts.URL+route, "", nil, &errResp), route)
		require.Equal(t, "Unauthenticated.", errResp.Message)
	}
	require.Equal(t, http.StatusUnauthorized, call(t, http.MethodGet, ts.URL+"/projects", "not-a-jwt", nil, nil))
}

func TestListProjects(t *testing.T) {
	ts := newTestServer(t)
	accessToken := login(t, ts)

	var page resources.Page[resources.Project]
	status := call(t, http.MethodGet, ts.URL+"/projects?page=2&per_page=5&sort_by=name&sort_direction=asc", accessToken, nil, &page)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 2, page.Meta.CurrentPage)
	require.Equal(t, 3, page.Meta.LastPage)
	require.Equal(t, 5, page.Meta.PerPage)
	require.Equal(t, 12, page.Meta.Total)
	require.Equal(t, 6, page.Meta.From)
	require.Equal(t, 10, page.Meta.To)
	require.Equal(t, ts.URL+"/projects", page.Meta.Path)
	require.Contains(t, page.Links.Next, "page=3")
	require.Contains(t, page.Links.Prev, "page=1")

	names := make([]string, 0, len(page.Data))
	for _, p := range page.Data {
		names = append(names, p.Name)
	}
	require.Equal(t, []string{"Internal Wiki", "Localization", "Mobile App", "Onboarding Flow", "Security Audit"}, names)

	page = resources.Page[resources.Project]{}
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, ts.URL+"/projects?status=active", accessToken, nil, &page))
	require.Equal(t, 5, page.Meta.Total)

	page = resources.Page[resources.Project]{}
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, ts.URL+"/projects?search=PORTAL", accessToken, nil, &page))
	require.Len(t, page.Data, 1)
	require.Equal(t, "Customer Portal", page.Data[0].Name)

	page = resources.Page[resources.Project]{}
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, ts.URL+"/projects?search=zzz", accessToken, nil, &page))
	require.Empty(t, page.Data)
	require.Equal(t, 1, page.Meta.LastPage)
	require.Zero(t, page.Meta.From)

	var errResp oauthmodel.ErrorResponse
	require.Equal(t, http.StatusUnprocessableEntity, call(t, http.MethodGet, ts.URL+"/projects?sort_by=password", accessToken, nil, &errResp))
	require.NotEmpty(t, errResp.Message)
}

func TestTaskCRUD(t *testing.T) {
	ts := newTestServer(t)
	accessToken := login(t, ts)

	var created resources.Single[resources.Task]
	status := call(t, http.MethodPost, ts.URL+"/tasks", accessToken, resources.Task{
		Title: "Write tests", Status: resources.TaskToDo, ProjectID: 1,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotZero(t, created.Data.ID)
	require.NotNil(t, created.Data.Project)
	require.Equal(t, "Website Redesign", created.Data.Project.Name)

	itemURL := ts.URL + "/tasks/" + jsonNumber(created.Data.ID)

	var fetched resources.Single[resources.Task]
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, itemURL, accessToken, nil, &fetched))
	require.Equal(t, "Write tests", fetched.Data.Title)

	update := created.Data
	update.Status = resources.TaskInProgress
	var updated resources.Single[resources.Task]
	require.Equal(t, http.StatusOK, call(t, http.MethodPut, itemURL, accessToken, update, &updated))
	require.Equal(t, resources.TaskInProgress, updated.Data.Status)
	require.Equal(t, created.Data.CreatedAt.Unix(), updated.Data.CreatedAt.Unix())

	update.Status = "someday"
	var errResp oauthmodel.ErrorResponse
	require.Equal(t, http.StatusUnprocessableEntity, call(t, http.MethodPut, itemURL, accessToken, update, &errResp))
	require.Equal(t, "The selected status is invalid.", errResp.Message)

	update.Status = resources.TaskToDo
	update.ProjectID = 999
	require.Equal(t, http.StatusUnprocessableEntity, call(t, http.MethodPut, itemURL, accessToken, update, &errResp))
	require.Equal(t, "The selected project id is invalid.", errResp.Message)

	require.Equal(t, http.StatusNoContent, call(t, http.MethodDelete, itemURL, accessToken, nil, nil))
	require.Equal(t, http.StatusNotFound, call(t, http.MethodGet, itemURL, accessToken, nil, &errResp))
	require.Contains(t, errResp.Message, "No query results")
	require.Equal(t, http.StatusNotFound, call(t, http.MethodDelete, itemURL, accessToken, nil, nil))
}

func TestCreateValidation(t *testing.T) {
	ts := newTestServer(t)
	accessToken := login(t, ts)

	tests := []struct {
		name     string
		path     string
		body     any
		expected string
	}{
		{"project without name", "/projects", resources.Project{Status: resources.ProjectActive}, "The name field is required."},
		{"project bad date", "/projects", map[string]any{"name": "x", "status": "active", "start_date": "01/02/2024"}, "The start date field must be a valid date."},
		{"item negative quantity", "/inventory-items", resources.InventoryItem{Name: "x", Quantity: -1, Status: resources.InventoryInStock}, "The quantity field must be at least 0."},
		{"item without status", "/inventory-items", resources.InventoryItem{Name: "x"}, "The status field is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errResp oauthmodel.ErrorResponse
			require.Equal(t, http.StatusUnprocessableEntity, call(t, http.MethodPost, ts.URL+tt.path, accessToken, tt.body, &errResp))
			require.Equal(t, tt.expected, errResp.Message)
		})
	}
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t)
	accessToken := login(t, ts)

	var metrics resources.DashboardMetrics
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, ts.URL+server.RouteDashboardMetrics, accessToken, nil, &metrics))
	require.Equal(t, 12, metrics.TotalProjects)
	require.Equal(t, 5, metrics.ProjectsByStatus[resources.ProjectActive])
	require.Equal(t, 2, metrics.ProjectsByStatus[resources.ProjectCompleted])
	require.Len(t, metrics.RecentProjects, 5)
}

func TestContact(t *testing.T) {
	ts := newTestServer(t)

	var errResp oauthmodel.ErrorResponse
	status := call(t, http.MethodPost, ts.URL+server.RouteContactUs, "", oauthmodel.ContactRequest{
		Name: "Ada", Email: "ada@example.com", Message: "Hello",
	}, &errResp)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, "The subject field is required.", errResp.Message)

	status = call(t, http.MethodPost, ts.URL+server.RouteContactUs, "", oauthmodel.ContactRequest{
		Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello",
	}, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestCorsPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/projects", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
