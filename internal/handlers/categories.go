// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"shelfkeeper/internal/inventory"
	"shelfkeeper/internal/metrics"
	"shelfkeeper/internal/render"
)

const categoryListPath = "/inventory/category"

// --- Category pages ---

// CategoryList renders every category ordered by name.
func (h *Inventory) CategoryList(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.List(r.Context())
	if err != nil {
		h.fail(w, r, "list categories", err)
		return
	}

	h.renderer.Page(w, r, "category_list", &render.PageData{
		Title:   "Categories",
		Section: "categories",
		Data:    map[string]any{"Categories": cats},
	})
}

// CategoryDetail renders a category with the items that reference it.
func (h *Inventory) CategoryDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	detail, err := h.categories.Detail(r.Context(), id)
	if err != nil {
		h.fail(w, r, "category detail", err)
		return
	}

	h.renderer.Page(w, r, "category_detail", &render.PageData{
		Title:   "Category: " + inventory.Unescape(detail.Category.Name),
		Section: "categories",
		Data: map[string]any{
			"Category": detail.Category,
			"Items":    detail.Items,
		},
	})
}

// CategoryNew renders the empty create form.
func (h *Inventory) CategoryNew(w http.ResponseWriter, r *http.Request) {
	h.categoryForm(w, r, http.StatusOK, true, categoryListPath+"/create", inventory.CategoryForm{}, nil)
}

// CategoryCreate handles the create form submission.
func (h *Inventory) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Error(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	out, err := h.categories.Create(r.Context(), categoryFormFromRequest(r))
	if err != nil {
		h.record("category", "create", outcomeOf(err))
		h.fail(w, r, "create category", err)
		return
	}

	switch {
	case out.Rejected():
		h.record("category", "create", metrics.OutcomeRejected)
		h.categoryForm(w, r, http.StatusUnprocessableEntity, true, categoryListPath+"/create", out.Form, out.Errors)
	case out.Existing:
		h.record("category", "create", metrics.OutcomeExisting)
		h.flash(w, r, "info", fmt.Sprintf("Category %q already exists.", inventory.Unescape(out.Category.Name)))
		http.Redirect(w, r, out.Category.URL(), http.StatusSeeOther)
	default:
		h.record("category", "create", metrics.OutcomeCreated)
		h.flash(w, r, "success", fmt.Sprintf("Category %q created.", inventory.Unescape(out.Category.Name)))
		http.Redirect(w, r, out.Category.URL(), http.StatusSeeOther)
	}
}

// CategoryEdit renders the update form pre-filled with the stored values.
func (h *Inventory) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	cat, err := h.categories.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "find category", err)
		return
	}

	h.categoryForm(w, r, http.StatusOK, false, cat.URL()+"/update", inventory.CategoryFormFrom(*cat), nil)
}

// CategoryUpdate handles the update form submission.
func (h *Inventory) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderer.Error(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	out, err := h.categories.Update(r.Context(), id, categoryFormFromRequest(r))
	if err != nil {
		h.record("category", "update", outcomeOf(err))
		h.fail(w, r, "update category", err)
		return
	}

	switch {
	case out.Rejected():
		h.record("category", "update", metrics.OutcomeRejected)
		h.categoryForm(w, r, http.StatusUnprocessableEntity, false, r.URL.Path, out.Form, out.Errors)
	case out.Existing:
		h.record("category", "update", metrics.OutcomeExisting)
		h.flash(w, r, "info", fmt.Sprintf("Category %q already exists.", inventory.Unescape(out.Category.Name)))
		http.Redirect(w, r, out.Category.URL(), http.StatusSeeOther)
	default:
		h.record("category", "update", metrics.OutcomeUpdated)
		h.flash(w, r, "success", fmt.Sprintf("Category %q updated.", inventory.Unescape(out.Category.Name)))
		http.Redirect(w, r, out.Category.URL(), http.StatusSeeOther)
	}
}

// CategoryDeleteConfirm renders the delete confirmation page. If items still
// reference the category they are listed instead of the delete button.
func (h *Inventory) CategoryDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	preview, err := h.categories.DeletePreview(r.Context(), id)
	if err != nil {
		h.fail(w, r, "load category for delete", err)
		return
	}
	if preview.Category == nil {
		http.Redirect(w, r, categoryListPath, http.StatusSeeOther)
		return
	}

	h.categoryDeletePage(w, r, http.StatusOK, preview)
}

// CategoryDelete removes the category, or shows the blocking items.
func (h *Inventory) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	res, err := h.categories.Delete(r.Context(), id)
	if err != nil {
		h.record("category", "delete", outcomeOf(err))
		h.fail(w, r, "delete category", err)
		return
	}

	if res.Blocked() {
		h.record("category", "delete", metrics.OutcomeBlocked)
		h.categoryDeletePage(w, r, http.StatusConflict, res)
		return
	}

	h.record("category", "delete", metrics.OutcomeDeleted)
	if res.Category != nil {
		h.flash(w, r, "success", fmt.Sprintf("Category %q deleted.", inventory.Unescape(res.Category.Name)))
	}
	http.Redirect(w, r, categoryListPath, http.StatusSeeOther)
}

func (h *Inventory) categoryForm(w http.ResponseWriter, r *http.Request, status int, isNew bool, action string, form inventory.CategoryForm, errs inventory.FieldErrors) {
	title := "Update Category"
	if isNew {
		title = "Create Category"
	}
	h.renderer.Page(w, r, "category_form", &render.PageData{
		Title:   title,
		Section: "categories",
		Status:  status,
		Data: map[string]any{
			"IsNew":  isNew,
			"Action": action,
			"Form":   form,
			"Errors": errs,
		},
	})
}

func (h *Inventory) categoryDeletePage(w http.ResponseWriter, r *http.Request, status int, d *inventory.CategoryDeletion) {
	h.renderer.Page(w, r, "category_delete", &render.PageData{
		Title:   "Delete Category",
		Section: "categories",
		Status:  status,
		Data: map[string]any{
			"Category": d.Category,
			"Items":    d.Items,
		},
	})
}

func categoryFormFromRequest(r *http.Request) inventory.CategoryForm {
	return inventory.CategoryForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
}
