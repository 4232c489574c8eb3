// Package validate checks product form input before it is allowed anywhere
// near the network. Validation is synchronous and side-effect free: form in,
// field-error map out. An empty map is the one and only "submittable"
// signal; no separate boolean exists to fall out of sync with it.
package validate

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mpelle/stockwell/internal/catalog"
)

// Errors maps a field name to a human-readable message.
type Errors map[string]string

// formInput mirrors catalog.ProductForm with the validation rules attached.
// Numeric fields are validated as the strings the user typed.
type formInput struct {
	Name        string `validate:"required,min=3"`
	Description string `validate:"required,min=10"`
	Price       string `validate:"required,positive_number"`
	Category    string `validate:"required,known_category"`
	Stock       string `validate:"required,whole_number"`
	SKU         string `validate:"omitempty,min=2"`
}

// Engine validates product forms.
type Engine struct {
	validate *validator.Validate
}

// New builds an Engine with the custom field rules registered.
func New() *Engine {
	v := validator.New()
	_ = v.RegisterValidation("positive_number", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
		return err == nil && n > 0
	})
	_ = v.RegisterValidation("whole_number", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n >= 0
	})
	_ = v.RegisterValidation("known_category", func(fl validator.FieldLevel) bool {
		return catalog.ValidCategory(fl.Field().String())
	})
	return &Engine{validate: v}
}

// ProductForm returns the field errors for a form. An empty map means the
// form is submittable.
func (e *Engine) ProductForm(form catalog.ProductForm) Errors {
	input := formInput{
		Name:        form.Name,
		Description: form.Description,
		Price:       form.Price,
		Category:    form.Category,
		Stock:       form.Stock,
		SKU:         form.SKU,
	}

	errs := Errors{}
	err := e.validate.Struct(input)
	if err == nil {
		return errs
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = "form could not be validated"
		return errs
	}
	for _, fe := range fieldErrors {
		field := strings.ToLower(fe.Field())
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = message(field, fe)
	}
	return errs
}

func message(field string, fe validator.FieldError) string {
	switch field {
	case "name":
		if fe.Tag() == "min" {
			return "Name must be at least 3 characters"
		}
		return "Name is required"
	case "description":
		if fe.Tag() == "min" {
			return "Description must be at least 10 characters"
		}
		return "Description is required"
	case "price":
		if fe.Tag() == "required" {
			return "Price is required"
		}
		return "Price must be a positive number"
	case "category":
		if fe.Tag() == "required" {
			return "Category is required"
		}
		return "Category must be one of: " + strings.Join(catalog.Categories, ", ")
	case "stock":
		if fe.Tag() == "required" {
			return "Stock is required"
		}
		return "Stock must be a whole number of zero or more"
	case "sku":
		return "SKU must be at least 2 characters"
	}
	return "Invalid value"
}
