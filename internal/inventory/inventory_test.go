package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfkeeper/internal/models"
	"shelfkeeper/internal/store"
	"shelfkeeper/internal/store/memory"
)

// fakeCounts records cache traffic for the counts tests.
type fakeCounts struct {
	cached      *Counts
	sets        int
	invalidated int
}

func (f *fakeCounts) Counts(context.Context) (Counts, bool) {
	if f.cached == nil {
		return Counts{}, false
	}
	return *f.cached, true
}

func (f *fakeCounts) SetCounts(_ context.Context, c Counts) {
	f.sets++
	f.cached = &c
}

func (f *fakeCounts) InvalidateCounts(context.Context) {
	f.invalidated++
	f.cached = nil
}

func newServices(t *testing.T, opts ...Option) (*CategoryService, *ItemService, *memory.Store) {
	t.Helper()
	s := memory.New()
	return NewCategoryService(s.Categories(), s.Items(), opts...),
		NewItemService(s.Items(), s.Categories(), opts...),
		s
}

func mustCategory(t *testing.T, svc *CategoryService, name string) *models.Category {
	t.Helper()
	out, err := svc.Create(context.Background(), CategoryForm{Name: name})
	require.NoError(t, err)
	require.False(t, out.Rejected(), "create %q: %v", name, out.Errors)
	return out.Category
}

func TestCategoryCreateThenDetail(t *testing.T) {
	ctx := context.Background()
	cats, _, _ := newServices(t)

	tests := []struct {
		name     string
		form     CategoryForm
		wantName string
		wantDesc string
	}{
		{name: "plain", form: CategoryForm{Name: "Tools", Description: "Hand tools"}, wantName: "Tools", wantDesc: "Hand tools"},
		{name: "trimmed", form: CategoryForm{Name: "  Garden  ", Description: "  outdoor "}, wantName: "Garden", wantDesc: "outdoor"},
		{name: "escaped", form: CategoryForm{Name: "<Nuts & Bolts>"}, wantName: "&lt;Nuts &amp; Bolts&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := cats.Create(ctx, tt.form)
			require.NoError(t, err)
			require.False(t, out.Rejected())
			assert.False(t, out.Existing)

			detail, err := cats.Detail(ctx, out.Category.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, detail.Category.Name)
			assert.Equal(t, tt.wantDesc, detail.Category.Description)
			assert.Empty(t, detail.Items)
		})
	}
}

func TestCategoryCreateRejectsShortName(t *testing.T) {
	ctx := context.Background()
	cats, _, s := newServices(t)

	out, err := cats.Create(ctx, CategoryForm{Name: " A ", Description: "x"})
	require.NoError(t, err)
	require.True(t, out.Rejected())
	assert.Nil(t, out.Category)
	assert.Equal(t, "A", out.Form.Name)
	assert.Equal(t, "name", out.Errors[0].Field)

	n, err := s.Categories().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCategoryCreateIsIdempotentByName(t *testing.T) {
	ctx := context.Background()
	cats, _, s := newServices(t)

	first := mustCategory(t, cats, "Tools")

	out, err := cats.Create(ctx, CategoryForm{Name: "Tools", Description: "again"})
	require.NoError(t, err)
	assert.True(t, out.Existing)
	assert.Equal(t, first.ID, out.Category.ID)

	n, err := s.Categories().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Name matching is exact, so a different case is a new category.
	other, err := cats.Create(ctx, CategoryForm{Name: "tools"})
	require.NoError(t, err)
	assert.False(t, other.Existing)
	assert.NotEqual(t, first.ID, other.Category.ID)
}

func TestCategoryList(t *testing.T) {
	cats, _, _ := newServices(t)
	for _, name := range []string{"Tools", "Garden", "Paint"} {
		mustCategory(t, cats, name)
	}

	list, err := cats.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Garden", list[0].Name)
	assert.Equal(t, "Paint", list[1].Name)
	assert.Equal(t, "Tools", list[2].Name)
}

func TestCategoryDetailNotFound(t *testing.T) {
	cats, _, _ := newServices(t)

	_, err := cats.Detail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryUpdate(t *testing.T) {
	ctx := context.Background()
	cats, _, _ := newServices(t)
	tools := mustCategory(t, cats, "Tools")

	out, err := cats.Update(ctx, tools.ID, CategoryForm{Name: "Tools", Description: "now described"})
	require.NoError(t, err)
	require.False(t, out.Rejected())
	assert.False(t, out.Existing, "keeping its own name is not a duplicate")
	assert.Equal(t, tools.ID, out.Category.ID)
	assert.Equal(t, "now described", out.Category.Description)
}

func TestCategoryUpdateDuplicateName(t *testing.T) {
	ctx := context.Background()
	cats, _, _ := newServices(t)
	tools := mustCategory(t, cats, "Tools")
	garden := mustCategory(t, cats, "Garden")

	out, err := cats.Update(ctx, garden.ID, CategoryForm{Name: "Tools"})
	require.NoError(t, err)
	assert.True(t, out.Existing)
	assert.Equal(t, tools.ID, out.Category.ID)

	unchanged, err := cats.Get(ctx, garden.ID)
	require.NoError(t, err)
	assert.Equal(t, "Garden", unchanged.Name)
}

func TestCategoryUpdateRejected(t *testing.T) {
	ctx := context.Background()
	cats, _, _ := newServices(t)
	tools := mustCategory(t, cats, "Tools")

	out, err := cats.Update(ctx, tools.ID, CategoryForm{Name: "T"})
	require.NoError(t, err)
	assert.True(t, out.Rejected())

	unchanged, err := cats.Get(ctx, tools.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tools", unchanged.Name)
}

func TestCategoryUpdateMissing(t *testing.T) {
	cats, _, _ := newServices(t)

	_, err := cats.Update(context.Background(), uuid.New(), CategoryForm{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryDeleteUnreferenced(t *testing.T) {
	ctx := context.Background()
	cats, _, _ := newServices(t)
	tools := mustCategory(t, cats, "Tools")

	res, err := cats.Delete(ctx, tools.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.False(t, res.Blocked())

	_, err = cats.Detail(ctx, tools.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryDeleteMissingIsIdempotent(t *testing.T) {
	cats, _, _ := newServices(t)

	res, err := cats.Delete(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.Nil(t, res.Category)
}

func TestCategoryDeleteBlocked(t *testing.T) {
	ctx := context.Background()
	cats, items, s := newServices(t)
	tools := mustCategory(t, cats, "Tools")

	created, err := items.Create(ctx, ItemForm{
		Name: "Hammer", Description: "Steel", InStock: "10", Price: "19.99",
		Category: []string{tools.ID.String()},
	})
	require.NoError(t, err)
	require.False(t, created.Rejected())

	res, err := cats.Delete(ctx, tools.ID)
	require.NoError(t, err)
	assert.False(t, res.Deleted)
	require.True(t, res.Blocked())
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Hammer", res.Items[0].Name)

	still, err := s.Categories().FindByID(ctx, tools.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)

	item, err := items.Detail(ctx, created.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, item.InStock)
}

func TestItemCreateRejectsInStock(t *testing.T) {
	ctx := context.Background()
	cats, items, s := newServices(t)
	tools := mustCategory(t, cats, "Tools")
	mustCategory(t, cats, "Garden")

	for _, inStock := range []string{"-1", "abc", "1.5", "", " 3"} {
		t.Run(inStock, func(t *testing.T) {
			out, err := items.Create(ctx, ItemForm{
				Name: "Hammer", Description: "Steel", InStock: inStock, Price: "1",
				Category: []string{tools.ID.String()},
			})
			require.NoError(t, err)
			require.True(t, out.Rejected())
			assert.Equal(t, "inStock", out.Errors[0].Field)
			assert.Equal(t, inStock, out.Form.InStock, "input is echoed verbatim")

			require.Len(t, out.Categories, 2)
			for _, opt := range out.Categories {
				assert.Equal(t, opt.ID == tools.ID, opt.Checked, opt.Name)
			}
		})
	}

	n, err := s.Items().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestItemCreateInStockRange(t *testing.T) {
	ctx := context.Background()
	_, items, s := newServices(t)

	for _, inStock := range []string{"2147483648", "3000000000", "99999999999999999999"} {
		t.Run(inStock, func(t *testing.T) {
			out, err := items.Create(ctx, ItemForm{Name: "Bolt", Description: "d", InStock: inStock, Price: "1"})
			require.NoError(t, err)
			require.True(t, out.Rejected())
			assert.Equal(t, msgInStockTooLarge, out.Errors.Get("inStock"))
			assert.Equal(t, inStock, out.Form.InStock)
		})
	}

	n, err := s.Items().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	out, err := items.Create(ctx, ItemForm{Name: "Bolt", Description: "d", InStock: "2147483647", Price: "1"})
	require.NoError(t, err)
	require.False(t, out.Rejected(), "%v", out.Errors)
	assert.Equal(t, 2147483647, out.Item.InStock)
}

func TestItemCreatePriceExact(t *testing.T) {
	ctx := context.Background()
	_, items, _ := newServices(t)

	for _, price := range []string{"9.99", "0", "19.99", "0.1", "123456789012345678.000000001", "1234567890123456789012345678901234567.5"} {
		t.Run(price, func(t *testing.T) {
			out, err := items.Create(ctx, ItemForm{Name: "Widget", Description: "d", InStock: "1", Price: price})
			require.NoError(t, err)
			require.False(t, out.Rejected(), "%v", out.Errors)

			got, err := items.Detail(ctx, out.Item.ID)
			require.NoError(t, err)
			assert.True(t, got.Price.Equal(decimal.RequireFromString(price)), "got %s", got.Price)
		})
	}
}

func TestItemRoundTrip(t *testing.T) {
	ctx := context.Background()
	cats, items, _ := newServices(t)
	tools := mustCategory(t, cats, "Tools")
	garden := mustCategory(t, cats, "Garden")

	out, err := items.Create(ctx, ItemForm{
		Name:        "  Shovel ",
		Description: " Long handle ",
		InStock:     "7",
		Price:       "24.50",
		Category:    []string{tools.ID.String(), garden.ID.String()},
	})
	require.NoError(t, err)
	require.False(t, out.Rejected())

	got, err := items.Detail(ctx, out.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shovel", got.Name)
	assert.Equal(t, "Long handle", got.Description)
	assert.Equal(t, 7, got.InStock)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("24.5")))
	assert.ElementsMatch(t, []uuid.UUID{garden.ID, tools.ID}, got.CategoryIDs)

	var names []string
	for _, c := range got.Categories {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Tools", "Garden"}, names)
	assert.Equal(t, "/inventory/item/"+got.ID.String(), got.URL())
}

func TestItemCreateWithoutCategories(t *testing.T) {
	_, items, _ := newServices(t)

	out, err := items.Create(context.Background(), ItemForm{Name: "Loose", Description: "d", InStock: "0", Price: "0"})
	require.NoError(t, err)
	require.False(t, out.Rejected())
	assert.Empty(t, out.Item.CategoryIDs)
}

func TestItemCreateUnknownCategory(t *testing.T) {
	ctx := context.Background()
	cats, items, s := newServices(t)
	tools := mustCategory(t, cats, "Tools")

	out, err := items.Create(ctx, ItemForm{
		Name: "Ghost", Description: "d", InStock: "1", Price: "1",
		Category: []string{tools.ID.String(), uuid.NewString()},
	})
	require.NoError(t, err)
	require.True(t, out.Rejected())
	assert.Equal(t, msgCategoryNotFound, out.Errors.Get("category"))

	n, err := s.Items().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestItemUpdate(t *testing.T) {
	ctx := context.Background()
	cats, items, _ := newServices(t)
	tools := mustCategory(t, cats, "Tools")
	garden := mustCategory(t, cats, "Garden")

	created, err := items.Create(ctx, ItemForm{
		Name: "Rake", Description: "d", InStock: "1", Price: "5",
		Category: []string{tools.ID.String()},
	})
	require.NoError(t, err)

	out, err := items.Update(ctx, created.Item.ID, ItemForm{
		Name: "Leaf Rake", Description: "wide", InStock: "4", Price: "6.25",
		Category: []string{garden.ID.String()},
	})
	require.NoError(t, err)
	require.False(t, out.Rejected())
	assert.Equal(t, created.Item.ID, out.Item.ID)

	got, err := items.Detail(ctx, created.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Leaf Rake", got.Name)
	assert.Equal(t, 4, got.InStock)
	assert.Equal(t, []uuid.UUID{garden.ID}, got.CategoryIDs)
}

func TestItemUpdateMissing(t *testing.T) {
	_, items, _ := newServices(t)

	_, err := items.Update(context.Background(), uuid.New(), ItemForm{Name: "x", Description: "d", InStock: "1", Price: "1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	_, items, _ := newServices(t)

	out, err := items.Create(ctx, ItemForm{Name: "Nail", Description: "d", InStock: "100", Price: "0.05"})
	require.NoError(t, err)

	require.NoError(t, items.Delete(ctx, out.Item.ID))
	require.NoError(t, items.Delete(ctx, out.Item.ID))

	_, err = items.Detail(ctx, out.Item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIndexCountsUsesCache(t *testing.T) {
	ctx := context.Background()
	cache := &fakeCounts{}
	cats, items, _ := newServices(t, WithCountsCache(cache))

	mustCategory(t, cats, "Tools")
	assert.Equal(t, 1, cache.invalidated)

	c, err := items.IndexCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Items: 0, Categories: 1}, c)
	assert.Equal(t, 1, cache.sets)

	// Served from cache: no second set.
	_, err = items.IndexCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	_, err = items.Create(ctx, ItemForm{Name: "Saw", Description: "d", InStock: "1", Price: "1"})
	require.NoError(t, err)
	assert.Equal(t, 2, cache.invalidated)

	c, err = items.IndexCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Items: 1, Categories: 1}, c)
}

// TestInventoryScenario walks the full category/item lifecycle.
func TestInventoryScenario(t *testing.T) {
	ctx := context.Background()
	cats, items, _ := newServices(t)

	tools := mustCategory(t, cats, "Tools")

	out, err := items.Create(ctx, ItemForm{
		Name: "Hammer", Description: "Steel", InStock: "10", Price: "19.99",
		Category: []string{tools.ID.String()},
	})
	require.NoError(t, err)
	require.False(t, out.Rejected())
	hammer := out.Item

	got, err := items.Detail(ctx, hammer.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.InStock)
	assert.Equal(t, "19.99", got.Price.String())
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "Tools", got.Categories[0].Name)

	blocked, err := cats.Delete(ctx, tools.ID)
	require.NoError(t, err)
	require.True(t, blocked.Blocked())
	assert.Equal(t, "Hammer", blocked.Items[0].Name)

	require.NoError(t, items.Delete(ctx, hammer.ID))

	done, err := cats.Delete(ctx, tools.ID)
	require.NoError(t, err)
	assert.True(t, done.Deleted)

	counts, err := items.IndexCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{}, counts)
}

// failingItems makes every item repository call fail.
type failingItems struct {
	store.ItemRepository
}

var errStore = errors.New("store down")

func (failingItems) FindByCategory(context.Context, uuid.UUID) ([]models.Item, error) {
	return nil, errStore
}

func (failingItems) Count(context.Context) (int, error) { return 0, errStore }

func TestStoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	cats := NewCategoryService(s.Categories(), failingItems{})
	items := NewItemService(failingItems{}, s.Categories())
	tools := mustCategory(t, cats, "Tools")

	_, err := cats.Delete(ctx, tools.ID)
	assert.ErrorIs(t, err, errStore)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = cats.Detail(ctx, tools.ID)
	assert.ErrorIs(t, err, errStore)

	_, err = items.IndexCounts(ctx)
	assert.ErrorIs(t, err, errStore)
}
