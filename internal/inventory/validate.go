// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package inventory

import (
	"errors"
	"regexp"
	"sort"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Limits and patterns applied to form fields.
const (
	CategoryNameMin = 2
	ItemNameMin     = 1
	ItemNameMax     = 30
)

var (
	inStockPattern = regexp.MustCompile(`^[0-9]+$`)
	pricePattern   = regexp.MustCompile(`^[0-9]+([.][0-9]+)?$`)
)

// User-facing validation messages.
const (
	msgCategoryName     = "Category name is required and must be at least 2 characters."
	msgItemName         = "Name must be between 1 and 30 characters."
	msgItemDescription  = "Description is required."
	msgInStock          = "In stock must be a whole number of 0 or more."
	msgInStockTooLarge  = "In stock is too large."
	msgPrice            = "Price must be a number like 12 or 12.50."
	msgCategoryInvalid  = "Selected category is not valid."
	msgCategoryNotFound = "Selected category no longer exists."
)

// Field names used in FieldErrors, matching the form input names.
var (
	categoryFields = []string{"name", "description"}
	itemFields     = []string{"name", "description", "inStock", "price", "category"}
)

// Validate checks a trimmed category form.
func (f CategoryForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name,
			validation.Required.Error(msgCategoryName),
			validation.RuneLength(CategoryNameMin, 0).Error(msgCategoryName),
		),
	)
}

// Validate checks a trimmed item form. It does not consult the store.
func (f ItemForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name,
			validation.Required.Error(msgItemName),
			validation.RuneLength(ItemNameMin, ItemNameMax).Error(msgItemName),
		),
		validation.Field(&f.Description,
			validation.Required.Error(msgItemDescription),
		),
		validation.Field(&f.InStock,
			validation.Required.Error(msgInStock),
			validation.Match(inStockPattern).Error(msgInStock),
		),
		validation.Field(&f.Price,
			validation.Required.Error(msgPrice),
			validation.Match(pricePattern).Error(msgPrice),
		),
		validation.Field(&f.Category,
			validation.Each(is.UUID.Error(msgCategoryInvalid)),
		),
	)
}

// fieldErrors converts an ozzo error into FieldErrors ordered by fields.
// Errors that are not validation failures are returned unchanged.
func fieldErrors(err error, fields []string) (FieldErrors, error) {
	if err == nil {
		return nil, nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil, err
	}

	var out FieldErrors
	for _, field := range fields {
		if e, ok := errs[field]; ok && e != nil {
			out = append(out, FieldError{Field: field, Message: firstMessage(e)})
		}
	}
	return out, nil
}

// firstMessage flattens the per-element errors produced by validation.Each.
func firstMessage(err error) string {
	var nested validation.Errors
	if !errors.As(err, &nested) {
		return err.Error()
	}
	keys := make([]string, 0, len(nested))
	for k := range nested {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if nested[k] != nil {
			return firstMessage(nested[k])
		}
	}
	return err.Error()
}

// parsedItem holds the typed values of a form that passed Validate.
type parsedItem struct {
	inStock    int
	price      decimal.Decimal
	categories []uuid.UUID
}

// parse converts validated strings to typed values. Patterns have already
// been checked, so only range overflow can fail here.
func (f ItemForm) parse() (parsedItem, FieldErrors) {
	var p parsedItem
	var errs FieldErrors

	// in_stock is a 32-bit column in Postgres; every backend shares the cap.
	n, err := strconv.ParseInt(f.InStock, 10, 32)
	if err != nil {
		errs = append(errs, FieldError{Field: "inStock", Message: msgInStockTooLarge})
	}
	p.inStock = int(n)

	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		errs = append(errs, FieldError{Field: "price", Message: msgPrice})
	}
	p.price = price

	p.categories = make([]uuid.UUID, 0, len(f.Category))
	seen := make(map[uuid.UUID]bool, len(f.Category))
	for _, s := range f.Category {
		id, err := uuid.Parse(s)
		if err != nil {
			errs = append(errs, FieldError{Field: "category", Message: msgCategoryInvalid})
			break
		}
		if !seen[id] {
			seen[id] = true
			p.categories = append(p.categories, id)
		}
	}
	return p, errs
}
