// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package inventory

import (
	"html"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"shelfkeeper/internal/models"
)

// escaper replaces the characters that are unsafe in HTML with entities.
// Stored names and descriptions are always kept in this escaped form.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape returns s with HTML-significant characters replaced by entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape reverses Escape for display and for pre-filling edit forms.
func Unescape(s string) string {
	return html.UnescapeString(s)
}

// CategoryForm is the raw category form submission.
type CategoryForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (f CategoryForm) trimmed() CategoryForm {
	return CategoryForm{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
	}
}

// CategoryFormFrom pre-fills an edit form from a stored category.
func CategoryFormFrom(c models.Category) CategoryForm {
	return CategoryForm{
		Name:        Unescape(c.Name),
		Description: Unescape(c.Description),
	}
}

// ItemForm is the raw item form submission. Category holds the selected
// category ids exactly as posted.
type ItemForm struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	InStock     string   `json:"inStock"`
	Price       string   `json:"price"`
	Category    []string `json:"category"`
}

func (f ItemForm) trimmed() ItemForm {
	return ItemForm{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		InStock:     f.InStock,
		Price:       f.Price,
		Category:    NormalizeSelection(f.Category),
	}
}

// ItemFormFrom pre-fills an edit form from a stored item.
func ItemFormFrom(i models.Item) ItemForm {
	selected := make([]string, len(i.CategoryIDs))
	for n, id := range i.CategoryIDs {
		selected[n] = id.String()
	}
	return ItemForm{
		Name:        Unescape(i.Name),
		Description: Unescape(i.Description),
		InStock:     strconv.Itoa(i.InStock),
		Price:       i.Price.String(),
		Category:    selected,
	}
}

// NormalizeSelection turns the posted multi-select values into a set of
// category references. A missing field becomes an empty set and a single
// value a one-element set. Blank entries and repeats are dropped.
func NormalizeSelection(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, v := range raw {
		v = Escape(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// MarkChecked annotates every category with whether its id is among
// selected. The input slice is not modified.
func MarkChecked(all []models.Category, selected []string) []models.CategoryOption {
	chosen := make(map[uuid.UUID]bool, len(selected))
	for _, s := range selected {
		if id, err := uuid.Parse(s); err == nil {
			chosen[id] = true
		}
	}

	out := make([]models.CategoryOption, len(all))
	for i, c := range all {
		out[i] = models.CategoryOption{Category: c, Checked: chosen[c.ID]}
	}
	return out
}
