package database

import (
	"context"
	"fmt"
	"log/slog"

	"shelfkeeper/internal/inventory"
)

// seedCategories and seedItems are the development fixtures. Items refer to
// categories by name.
var (
	seedCategories = []inventory.CategoryForm{
		{Name: "Hand Tools", Description: "Hammers, saws and screwdrivers"},
		{Name: "Power Tools", Description: "Corded and cordless"},
		{Name: "Garden", Description: "Outdoor equipment"},
		{Name: "Fasteners", Description: "Nails, screws and bolts"},
	}

	seedItems = []struct {
		form       inventory.ItemForm
		categories []string
	}{
		{inventory.ItemForm{Name: "Claw Hammer", Description: "16 oz steel head", InStock: "12", Price: "19.99"}, []string{"Hand Tools"}},
		{inventory.ItemForm{Name: "Cordless Drill", Description: "18V with two batteries", InStock: "4", Price: "129.00"}, []string{"Power Tools"}},
		{inventory.ItemForm{Name: "Leaf Rake", Description: "Wide plastic tines", InStock: "9", Price: "14.50"}, []string{"Garden", "Hand Tools"}},
		{inventory.ItemForm{Name: "Wood Screws", Description: "Box of 200, 4x40mm", InStock: "57", Price: "6.75"}, []string{"Fasteners"}},
	}
)

// Seed populates an empty inventory with development data. It goes through
// the services so fixtures get the same normalization as form input, and it
// works against any store backend.
func Seed(ctx context.Context, categories *inventory.CategoryService, items *inventory.ItemService) error {
	counts, err := items.IndexCounts(ctx)
	if err != nil {
		return fmt.Errorf("seed check counts: %w", err)
	}
	if counts.Categories > 0 || counts.Items > 0 {
		slog.Info("inventory already seeded, skipping")
		return nil
	}

	ids := make(map[string]string, len(seedCategories))
	for _, form := range seedCategories {
		out, err := categories.Create(ctx, form)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", form.Name, err)
		}
		if out.Rejected() {
			return fmt.Errorf("seed category %q: %w", form.Name, out.Errors)
		}
		ids[form.Name] = out.Category.ID.String()
	}

	for _, s := range seedItems {
		form := s.form
		for _, name := range s.categories {
			form.Category = append(form.Category, ids[name])
		}
		out, err := items.Create(ctx, form)
		if err != nil {
			return fmt.Errorf("seed item %q: %w", form.Name, err)
		}
		if out.Rejected() {
			return fmt.Errorf("seed item %q: %w", form.Name, out.Errors)
		}
	}

	slog.Info("inventory seeded",
		"categories", len(seedCategories),
		"items", len(seedItems),
	)
	return nil
}
