// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the inventory pages.
// Handlers receive their dependencies through the handler struct and turn
// workflow outcomes into pages, redirects and flash messages.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shelfkeeper/internal/inventory"
	"shelfkeeper/internal/metrics"
	"shelfkeeper/internal/render"
	"shelfkeeper/internal/session"
	"shelfkeeper/internal/telemetry"
)

// Inventory groups the category and item handlers and their dependencies.
type Inventory struct {
	renderer   *render.Renderer
	flasher    *session.Flasher
	categories *inventory.CategoryService
	items      *inventory.ItemService
	metrics    *metrics.Metrics
}

// NewInventory creates the handler group. m may be nil.
func NewInventory(renderer *render.Renderer, flasher *session.Flasher, categories *inventory.CategoryService, items *inventory.ItemService, m *metrics.Metrics) *Inventory {
	return &Inventory{
		renderer:   renderer,
		flasher:    flasher,
		categories: categories,
		items:      items,
		metrics:    m,
	}
}

// Index renders the landing page with item and category totals.
func (h *Inventory) Index(w http.ResponseWriter, r *http.Request) {
	counts, err := h.items.IndexCounts(r.Context())
	if err != nil {
		h.fail(w, r, "index counts", err)
		return
	}

	h.renderer.Page(w, r, "index", &render.PageData{
		Title:   "Home",
		Section: "index",
		Data:    map[string]any{"Counts": counts},
	})
}

// parseID reads the {id} route parameter. A malformed id renders 404.
func (h *Inventory) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.renderer.Error(w, r, http.StatusNotFound, "The requested record does not exist.")
		return uuid.Nil, false
	}
	return id, true
}

// fail renders ErrNotFound as 404 and everything else as 500. Unexpected
// errors are logged and reported.
func (h *Inventory) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, inventory.ErrNotFound) {
		h.renderer.Error(w, r, http.StatusNotFound, "The requested record does not exist.")
		return
	}
	slog.ErrorContext(r.Context(), op+" failed", "error", err, "path", r.URL.Path)
	telemetry.CaptureError(r, err)
	h.renderer.Error(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// flash queues a message for the next page. Failures only cost the message.
func (h *Inventory) flash(w http.ResponseWriter, r *http.Request, typ, message string) {
	if err := h.flasher.Add(w, r, typ, message); err != nil {
		slog.WarnContext(r.Context(), "failed to queue flash message", "error", err)
	}
}

func (h *Inventory) record(entity, action, outcome string) {
	if h.metrics != nil {
		h.metrics.Workflow(entity, action, outcome)
	}
}

// outcomeOf maps a workflow error to its metric label.
func outcomeOf(err error) string {
	if errors.Is(err, inventory.ErrNotFound) {
		return metrics.OutcomeNotFound
	}
	return metrics.OutcomeError
}
