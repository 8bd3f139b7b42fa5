package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-dashboard/api"
	"github.com/jrsteele09/go-dashboard/internal/config"
	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/listview"
	"github.com/jrsteele09/go-dashboard/oauthmodel"
	"github.com/jrsteele09/go-dashboard/resources"
	"github.com/jrsteele09/go-dashboard/server"
	"github.com/jrsteele09/go-dashboard/sessions"
	"github.com/jrsteele09/go-dashboard/token"
	tokenrepofake "github.com/jrsteele09/go-dashboard/token/repofake"
	"github.com/stretchr/testify/require"
)

// fixture is a dev API server fronted by an optional interceptor, plus a
// client with a logged-in session.
type fixture struct {
	server    *httptest.Server
	client    *api.Client
	manager   *sessions.Manager
	store     *tokenrepofake.FakeTokenRepo
	intercept atomic.Value // func(w, r) bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.Parse([]byte("env: TEST\nseed_data: true\n"))
	require.NoError(t, err)
	issuer := token.NewIssuer(token.NewHMACSigner("test-secret"))
	dev, err := server.New(cfg, server.NewInMemoryRepos(nil), issuer)
	require.NoError(t, err)

	f := &fixture{store: tokenrepofake.NewFakeTokenRepo()}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if intercept, ok := f.intercept.Load().(func(http.ResponseWriter, *http.Request) bool); ok && intercept(w, r) {
			return
		}
		dev.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)

	f.client = api.New(f.server.URL, api.WithHTTPClient(f.server.Client()))
	f.manager = sessions.New(f.client, f.store)
	f.client.SetSession(f.manager)
	t.Cleanup(f.manager.Close)
	return f
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	resp, err := f.client.Login(ctx, server.DemoUserEmail, server.DemoUserPassword)
	require.NoError(t, err)
	user, err := f.client.Me(ctx, resp.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.manager.Login(ctx, resp, user))
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
}

func TestLoginFailureMessage(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Login(context.Background(), server.DemoUserEmail, "wrong")
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	require.Equal(t, "Invalid credentials", err.Error())
}

func TestProtectedCallWithoutSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Metrics(context.Background())
	require.ErrorIs(t, err, errors.ErrNotAuthenticated)
}

func TestResourceCRUD(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	items := api.NewResource[resources.InventoryItem](f.client, resources.InventoryItems)

	created, err := items.Create(ctx, &resources.InventoryItem{Name: "Cable", Quantity: 40, Status: resources.InventoryInStock})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := items.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Cable", got.Name)

	got.Quantity = 0
	got.Status = resources.InventoryOutOfStock
	updated, err := items.Update(ctx, got.ID, got)
	require.NoError(t, err)
	require.Equal(t, resources.InventoryOutOfStock, updated.Status)

	page, err := items.List(ctx, url.Values{"status": {resources.InventoryOutOfStock}})
	require.NoError(t, err)
	require.Equal(t, 2, page.Meta.Total)

	_, err = items.Create(ctx, &resources.InventoryItem{Status: resources.InventoryInStock})
	require.Equal(t, "The name field is required.", errors.MessageOr(err, listview.FetchErrorMessage))

	require.NoError(t, items.Delete(ctx, created.ID))
	_, err = items.Get(ctx, created.ID)
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestDeleteRetriesAfterRefresh(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	projects := api.NewResource[resources.Project](f.client, resources.Projects)
	firstToken := f.manager.AccessToken()

	var deletes, refreshes int32
	f.intercept.Store(func(w http.ResponseWriter, r *http.Request) bool {
		switch {
		case r.Method == http.MethodDelete && atomic.AddInt32(&deletes, 1) == 1:
			unauthorized(w)
			return true
		case r.URL.Path == server.RouteAuthRefreshToken:
			atomic.AddInt32(&refreshes, 1)
		}
		return false
	})

	require.NoError(t, projects.Delete(ctx, 3))
	require.EqualValues(t, 2, atomic.LoadInt32(&deletes))
	require.EqualValues(t, 1, atomic.LoadInt32(&refreshes))
	require.NotEqual(t, firstToken, f.manager.AccessToken())
	require.Equal(t, sessions.Authenticated, f.manager.State())

	_, err := projects.Get(ctx, 3)
	require.ErrorIs(t, err, errors.ErrNotFound)

	stored, err := f.store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, f.manager.AccessToken(), stored.AccessToken)
}

func TestDeleteWithFailedRefreshEndsSession(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	projects := api.NewResource[resources.Project](f.client, resources.Projects)

	var deletes int32
	f.intercept.Store(func(w http.ResponseWriter, r *http.Request) bool {
		if r.Method == http.MethodDelete {
			atomic.AddInt32(&deletes, 1)
			unauthorized(w)
			return true
		}
		if r.URL.Path == server.RouteAuthRefreshToken {
			unauthorized(w)
			return true
		}
		return false
	})

	err := projects.Delete(ctx, 3)
	require.ErrorIs(t, err, errors.ErrSessionExpired)
	require.EqualValues(t, 1, atomic.LoadInt32(&deletes))
	require.Equal(t, sessions.Anonymous, f.manager.State())

	_, err = f.store.Load(ctx)
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := api.New(ts.URL + "/")
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/projects", url.Values{"page": {"2"}}, "abc", nil, nil))
	require.Equal(t, "Bearer abc", got.Get("Authorization"))
	require.Equal(t, "application/json", got.Get("Accept"))
	require.NotEmpty(t, got.Get("X-Request-ID"))

	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/projects", nil, "", nil, nil))
	require.Empty(t, got.Get("Authorization"))
}

func TestErrorWithoutMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer ts.Close()

	err := api.New(ts.URL).Do(context.Background(), http.MethodGet, "/projects", nil, "", nil, nil)
	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, listview.FetchErrorMessage, errors.MessageOr(err, listview.FetchErrorMessage))
}

func TestRegisterMetricsAndContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.client.Register(ctx, oauthmodel.RegisterRequest{
		Name: "Grace", Email: "grace@example.com", Password: "Password123", PasswordConfirmation: "Password123",
	})
	require.NoError(t, err)
	require.NoError(t, f.manager.Login(ctx, resp, nil))

	metrics, err := f.client.Metrics(ctx)
	require.NoError(t, err)
	require.Equal(t, 12, metrics.TotalProjects)

	err = f.client.Contact(ctx, oauthmodel.ContactRequest{Name: "Grace", Email: "grace@example.com", Subject: "Hi", Message: "Hello"})
	require.NoError(t, err)
}

func TestListControllerOverAPI(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	projects := api.NewResource[resources.Project](f.client, resources.Projects)

	loc, err := listview.NewMemoryLocation("/projects?page=2&sort_by=name")
	require.NoError(t, err)
	c := listview.New(projects.List, loc, listview.WithDebounce(time.Millisecond))
	defer c.Close()

	c.Mount()
	c.Wait()

	state := c.State()
	require.Empty(t, state.Error)
	require.Len(t, state.Items, 2)
	require.Equal(t, 12, state.Meta.Total)
	require.Equal(t, 2, c.Pagination().LastPage)
	require.Equal(t, "Support Chatbot", state.Items[0].Name)
}
