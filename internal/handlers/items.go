// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"shelfkeeper/internal/inventory"
	"shelfkeeper/internal/metrics"
	"shelfkeeper/internal/models"
	"shelfkeeper/internal/render"
)

const itemListPath = "/inventory/item"

// --- Item pages ---

// ItemList renders every item with its categories.
func (h *Inventory) ItemList(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		h.fail(w, r, "list items", err)
		return
	}

	h.renderer.Page(w, r, "item_list", &render.PageData{
		Title:   "Items",
		Section: "items",
		Data:    map[string]any{"Items": items},
	})
}

// ItemDetail renders one item.
func (h *Inventory) ItemDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	item, err := h.items.Detail(r.Context(), id)
	if err != nil {
		h.fail(w, r, "item detail", err)
		return
	}

	h.renderer.Page(w, r, "item_detail", &render.PageData{
		Title:   "Item: " + inventory.Unescape(item.Name),
		Section: "items",
		Data:    map[string]any{"Item": item},
	})
}

// ItemNew renders the empty create form with every category unchecked.
func (h *Inventory) ItemNew(w http.ResponseWriter, r *http.Request) {
	opts, err := h.items.FormOptions(r.Context(), nil)
	if err != nil {
		h.fail(w, r, "load categories", err)
		return
	}
	h.itemForm(w, r, http.StatusOK, true, itemListPath+"/create", inventory.ItemForm{}, opts, nil)
}

// ItemCreate handles the create form submission.
func (h *Inventory) ItemCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Error(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	out, err := h.items.Create(r.Context(), itemFormFromRequest(r))
	if err != nil {
		h.record("item", "create", outcomeOf(err))
		h.fail(w, r, "create item", err)
		return
	}

	if out.Rejected() {
		h.record("item", "create", metrics.OutcomeRejected)
		h.itemForm(w, r, http.StatusUnprocessableEntity, true, itemListPath+"/create", out.Form, out.Categories, out.Errors)
		return
	}

	h.record("item", "create", metrics.OutcomeCreated)
	h.flash(w, r, "success", fmt.Sprintf("Item %q created.", inventory.Unescape(out.Item.Name)))
	http.Redirect(w, r, out.Item.URL(), http.StatusSeeOther)
}

// ItemEdit renders the update form with the item's categories checked.
func (h *Inventory) ItemEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	item, err := h.items.Detail(r.Context(), id)
	if err != nil {
		h.fail(w, r, "find item", err)
		return
	}

	form := inventory.ItemFormFrom(*item)
	opts, err := h.items.FormOptions(r.Context(), form.Category)
	if err != nil {
		h.fail(w, r, "load categories", err)
		return
	}
	h.itemForm(w, r, http.StatusOK, false, item.URL()+"/update", form, opts, nil)
}

// ItemUpdate handles the update form submission.
func (h *Inventory) ItemUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderer.Error(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	out, err := h.items.Update(r.Context(), id, itemFormFromRequest(r))
	if err != nil {
		h.record("item", "update", outcomeOf(err))
		h.fail(w, r, "update item", err)
		return
	}

	if out.Rejected() {
		h.record("item", "update", metrics.OutcomeRejected)
		h.itemForm(w, r, http.StatusUnprocessableEntity, false, r.URL.Path, out.Form, out.Categories, out.Errors)
		return
	}

	h.record("item", "update", metrics.OutcomeUpdated)
	h.flash(w, r, "success", fmt.Sprintf("Item %q updated.", inventory.Unescape(out.Item.Name)))
	http.Redirect(w, r, out.Item.URL(), http.StatusSeeOther)
}

// ItemDeleteConfirm renders the delete confirmation page.
func (h *Inventory) ItemDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	item, err := h.items.Detail(r.Context(), id)
	if err != nil {
		h.fail(w, r, "find item", err)
		return
	}

	h.renderer.Page(w, r, "item_delete", &render.PageData{
		Title:   "Delete Item",
		Section: "items",
		Data:    map[string]any{"Item": item},
	})
}

// ItemDelete removes the item. Deleting a missing item still redirects.
func (h *Inventory) ItemDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.items.Delete(r.Context(), id); err != nil {
		h.record("item", "delete", outcomeOf(err))
		h.fail(w, r, "delete item", err)
		return
	}

	h.record("item", "delete", metrics.OutcomeDeleted)
	h.flash(w, r, "success", "Item deleted.")
	http.Redirect(w, r, itemListPath, http.StatusSeeOther)
}

func (h *Inventory) itemForm(w http.ResponseWriter, r *http.Request, status int, isNew bool, action string, form inventory.ItemForm, opts []models.CategoryOption, errs inventory.FieldErrors) {
	title := "Update Item"
	if isNew {
		title = "Create Item"
	}
	h.renderer.Page(w, r, "item_form", &render.PageData{
		Title:   title,
		Section: "items",
		Status:  status,
		Data: map[string]any{
			"IsNew":      isNew,
			"Action":     action,
			"Form":       form,
			"Categories": opts,
			"Errors":     errs,
		},
	})
}

// itemFormFromRequest reads the posted fields. The category field may be
// absent, single or repeated.
func itemFormFromRequest(r *http.Request) inventory.ItemForm {
	return inventory.ItemForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		InStock:     r.PostFormValue("inStock"),
		Price:       r.PostFormValue("price"),
		Category:    r.PostForm["category"],
	}
}
