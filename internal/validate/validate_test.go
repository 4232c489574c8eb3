package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpelle/stockwell/internal/catalog"
)

func validForm() catalog.ProductForm {
	return catalog.ProductForm{
		Name:        "Walnut Shelf",
		Description: "Solid walnut wall shelf, 60cm",
		Price:       "49.90",
		Category:    "home",
		Stock:       "12",
		SKU:         "WS-01",
	}
}

func TestProductForm_ValidFormHasNoErrors(t *testing.T) {
	e := New()

	errs := e.ProductForm(validForm())
	assert.Empty(t, errs)

	// SKU is optional.
	form := validForm()
	form.SKU = ""
	assert.Empty(t, e.ProductForm(form))
}

func TestProductForm_FieldRules(t *testing.T) {
	e := New()

	cases := []struct {
		name      string
		mutate    func(*catalog.ProductForm)
		wantField string
	}{
		{"empty name", func(f *catalog.ProductForm) { f.Name = "" }, "name"},
		{"name too short", func(f *catalog.ProductForm) { f.Name = "ab" }, "name"},
		{"empty description", func(f *catalog.ProductForm) { f.Description = "" }, "description"},
		{"description too short", func(f *catalog.ProductForm) { f.Description = "too short" }, "description"},
		{"empty price", func(f *catalog.ProductForm) { f.Price = "" }, "price"},
		{"zero price", func(f *catalog.ProductForm) { f.Price = "0" }, "price"},
		{"negative price", func(f *catalog.ProductForm) { f.Price = "-3" }, "price"},
		{"unparsable price", func(f *catalog.ProductForm) { f.Price = "9,50" }, "price"},
		{"empty category", func(f *catalog.ProductForm) { f.Category = "" }, "category"},
		{"unknown category", func(f *catalog.ProductForm) { f.Category = "gadgets" }, "category"},
		{"empty stock", func(f *catalog.ProductForm) { f.Stock = "" }, "stock"},
		{"negative stock", func(f *catalog.ProductForm) { f.Stock = "-1" }, "stock"},
		{"fractional stock", func(f *catalog.ProductForm) { f.Stock = "2.5" }, "stock"},
		{"sku too short", func(f *catalog.ProductForm) { f.SKU = "x" }, "sku"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)

			errs := e.ProductForm(form)
			require.Len(t, errs, 1)
			assert.Contains(t, errs, tc.wantField)
			assert.NotEmpty(t, errs[tc.wantField])
		})
	}
}

func TestProductForm_BoundaryValues(t *testing.T) {
	e := New()

	form := validForm()
	form.Name = "abc" // exactly the minimum
	form.Description = "exactly 10" // 10 runes
	form.Stock = "0"
	form.Price = "0.01"
	form.SKU = "xy"
	assert.Empty(t, e.ProductForm(form))

	// "10.50" parses as a positive number.
	form.Price = "10.50"
	assert.Empty(t, e.ProductForm(form))
}

func TestProductForm_CollectsAllFailingFields(t *testing.T) {
	e := New()

	errs := e.ProductForm(catalog.ProductForm{})
	require.Len(t, errs, 5)
	for _, field := range []string{"name", "description", "price", "category", "stock"} {
		assert.Contains(t, errs, field)
	}
	// SKU absent: optional fields produce no error when empty.
	assert.NotContains(t, errs, "sku")
}
