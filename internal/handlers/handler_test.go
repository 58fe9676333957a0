// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against the in-memory store so no services are required.
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"shelfkeeper/internal/inventory"
	"shelfkeeper/internal/metrics"
	"shelfkeeper/internal/models"
	"shelfkeeper/internal/render"
	"shelfkeeper/internal/session"
	"shelfkeeper/internal/store/memory"
)

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Store      *memory.Store
	Categories *inventory.CategoryService
	Items      *inventory.ItemService
	Flasher    *session.Flasher
	Metrics    *metrics.Metrics
	Handlers   *Inventory
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	st := memory.New()
	cats := inventory.NewCategoryService(st.Categories(), st.Items())
	items := inventory.NewItemService(st.Items(), st.Categories())
	flasher := session.NewFlasher(session.NewCookieStore(
		securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32), false,
	))
	m := metrics.New()

	return &testEnv{
		Store:      st,
		Categories: cats,
		Items:      items,
		Flasher:    flasher,
		Metrics:    m,
		Handlers:   NewInventory(renderer, flasher, cats, items, m),
	}
}

// category creates a category through the workflow.
func (e *testEnv) category(t *testing.T, name string) *models.Category {
	t.Helper()
	out, err := e.Categories.Create(context.Background(), inventory.CategoryForm{Name: name})
	if err != nil || out.Rejected() {
		t.Fatalf("create category %q: err=%v errors=%v", name, err, out)
	}
	return out.Category
}

// item creates an item through the workflow.
func (e *testEnv) item(t *testing.T, name string, cats ...*models.Category) *models.Item {
	t.Helper()
	ids := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = c.ID.String()
	}
	out, err := e.Items.Create(context.Background(), inventory.ItemForm{
		Name:        name,
		Description: name + " description",
		InStock:     "3",
		Price:       "9.99",
		Category:    ids,
	})
	if err != nil || out.Rejected() {
		t.Fatalf("create item %q: err=%v outcome=%+v", name, err, out)
	}
	return out.Item
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// get builds a GET request, optionally with an {id} route parameter.
func get(target string, id ...uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if len(id) > 0 {
		req = withChiURLParam(req, "id", id[0].String())
	}
	return req
}

// postForm builds a form POST request, optionally with an {id} route parameter.
func postForm(target string, form url.Values, id ...string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if len(id) > 0 {
		req = withChiURLParam(req, "id", id[0])
	}
	return req
}

// serve runs a handler and returns the recorder.
func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

// popFlashes replays the response cookies on a fresh request and returns
// the queued flash messages.
func (e *testEnv) popFlashes(t *testing.T, rr *httptest.ResponseRecorder) []session.Flash {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	flashes, err := e.Flasher.Pop(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("pop flashes: %v", err)
	}
	return flashes
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d (body: %.300s)", rr.Code, want, rr.Body.String())
	}
}

func assertRedirect(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	assertStatus(t, rr, http.StatusSeeOther)
	if loc := rr.Header().Get("Location"); loc != want {
		t.Errorf("Location: got %q, want %q", loc, want)
	}
}

func assertContains(t *testing.T, rr *httptest.ResponseRecorder, want ...string) {
	t.Helper()
	body := rr.Body.String()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("body should contain %q", w)
		}
	}
}
