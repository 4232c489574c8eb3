package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mpelle/stockwell/internal/catalog"
	"github.com/mpelle/stockwell/internal/draft"
	"github.com/mpelle/stockwell/internal/session"
	"github.com/mpelle/stockwell/internal/validate"
)

// Logical form fields in focus order. Category is cycled, not typed.
const (
	fieldName = iota
	fieldDescription
	fieldPrice
	fieldCategory
	fieldStock
	fieldSKU
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Description", "Price", "Category", "Stock", "SKU"}

// inputIndex maps a logical field to its textinput slot; category has none.
var inputIndex = [fieldCount]int{0, 1, 2, -1, 3, 4}

type formState struct {
	productID string
	status    catalog.Status
	editor    *session.Editor

	inputs []textinput.Model
	catIdx int // index into catalog.Categories, -1 when unset
	focus  int

	errors validate.Errors

	offer        draft.Draft
	offerPending bool
}

// openForm starts an editing session. For an edit the fields are seeded from
// the product's current values; for a create they start empty. An existing
// draft triggers the resume/discard prompt before editing begins.
func (m *Model) openForm(productID string) {
	var base catalog.ProductForm
	status := catalog.Status("")
	if productID != "" {
		if p, _, ok := m.store.Product(productID); ok {
			base = catalog.ProductForm{
				Name:        p.Name,
				Description: p.Description,
				Price:       strconv.FormatFloat(p.Price, 'f', 2, 64),
				Category:    p.Category,
				Stock:       strconv.Itoa(p.Stock),
				SKU:         p.SKU,
				Images:      append([]string(nil), p.Images...),
			}
			status = p.Status
		}
	}

	editor, offer, hasDraft := session.Open(m.drafts, productID, base, session.Options{
		Autosave:   m.autosave,
		SavedDecay: m.savedDecay,
		OnChange:   m.relay.Repaint,
	})

	f := formState{
		productID:    productID,
		status:       status,
		editor:       editor,
		catIdx:       -1,
		offer:        offer,
		offerPending: hasDraft,
	}
	f.inputs = make([]textinput.Model, 5)
	for i := range f.inputs {
		in := textinput.New()
		in.CharLimit = 200
		f.inputs[i] = in
	}
	f.inputs[0].Placeholder = "Product name"
	f.inputs[1].Placeholder = "Description"
	f.inputs[2].Placeholder = "0.00"
	f.inputs[3].Placeholder = "0"
	f.inputs[4].Placeholder = "Optional"
	f.load(base)
	f.setFocus(fieldName)

	m.form = &f
	m.mode = modeForm
}

// load seeds the inputs from a form value.
func (f *formState) load(v catalog.ProductForm) {
	f.inputs[0].SetValue(v.Name)
	f.inputs[1].SetValue(v.Description)
	f.inputs[2].SetValue(v.Price)
	f.inputs[3].SetValue(v.Stock)
	f.inputs[4].SetValue(v.SKU)
	f.catIdx = -1
	for i, c := range catalog.Categories {
		if c == v.Category {
			f.catIdx = i
			break
		}
	}
}

// value assembles the form from the current field state.
func (f *formState) value() catalog.ProductForm {
	v := catalog.ProductForm{
		Name:        f.inputs[0].Value(),
		Description: f.inputs[1].Value(),
		Price:       strings.TrimSpace(f.inputs[2].Value()),
		Stock:       strings.TrimSpace(f.inputs[3].Value()),
		SKU:         strings.TrimSpace(f.inputs[4].Value()),
		Status:      f.status,
	}
	if f.catIdx >= 0 {
		v.Category = catalog.Categories[f.catIdx]
	}
	return v
}

func (f *formState) setFocus(field int) {
	f.focus = field
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	if idx := inputIndex[field]; idx >= 0 {
		f.inputs[idx].Focus()
	}
}

func (f *formState) cycleCategory(delta int) {
	n := len(catalog.Categories)
	f.catIdx = ((f.catIdx+delta)%n + n) % n
}

// handleFormKey processes keyboard input while the form is open.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form

	if f.offerPending {
		switch msg.String() {
		case "y", "enter":
			f.editor.UseDraft(f.offer)
			f.load(f.offer.Form)
			f.offerPending = false
		case "n", "esc":
			f.editor.DiscardDraft()
			f.offerPending = false
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		f.editor.CancelWithSave()
		m.form = nil
		m.mode = modeList
		return m, nil

	case "tab", "down":
		f.setFocus((f.focus + 1) % fieldCount)
		return m, nil

	case "shift+tab", "up":
		f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		return m, nil

	case "enter":
		return m.submitForm()
	}

	if f.focus == fieldCategory {
		switch msg.String() {
		case "left", "h":
			f.cycleCategory(-1)
		case "right", "l", " ":
			f.cycleCategory(1)
		default:
			return m, nil
		}
		f.editor.Apply(func(form *catalog.ProductForm) { *form = f.value() })
		f.revalidate(m.validator)
		return m, nil
	}

	idx := inputIndex[f.focus]
	var cmd tea.Cmd
	f.inputs[idx], cmd = f.inputs[idx].Update(msg)
	f.editor.Apply(func(form *catalog.ProductForm) { *form = f.value() })
	f.revalidate(m.validator)
	return m, cmd
}

// revalidate refreshes field errors after an edit, but only for fields that
// were already flagged; fresh errors appear on submit, not mid-keystroke.
func (f *formState) revalidate(v *validate.Engine) {
	if len(f.errors) == 0 {
		return
	}
	fresh := v.ProductForm(f.value())
	for field := range f.errors {
		if msg, still := fresh[field]; still {
			f.errors[field] = msg
		} else {
			delete(f.errors, field)
		}
	}
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	form := f.value()

	if errs := m.validator.ProductForm(form); len(errs) > 0 {
		f.errors = errs
		return m, nil
	}

	// Persist the final state so a failed request can still offer it back.
	f.editor.Flush()
	f.editor.Close()

	productID := f.productID
	m.form = nil
	m.mode = modeList

	if productID == "" {
		return m, m.mutationCmd(func() error {
			return m.coord.Create(m.ctx, form)
		})
	}
	return m, m.mutationCmd(func() error {
		return m.coord.Update(m.ctx, productID, form)
	})
}

// renderForm draws the editing view.
func (m Model) renderForm() string {
	f := m.form
	var b strings.Builder

	title := "New product"
	if f.productID != "" {
		title = "Edit product"
	}
	b.WriteString(m.styles.Logo.Render("stockwell"))
	b.WriteString("  ")
	b.WriteString(m.styles.Header.Render(title))
	if f.editor.DraftSaved() {
		b.WriteString("  ")
		b.WriteString(m.styles.Chip.Render("draft saved"))
	}
	b.WriteString("\n\n")

	if f.offerPending {
		b.WriteString(m.styles.Modal.Render(
			"A draft from a previous session exists.\n\n" +
				m.styles.Header.Render("y") + " resume draft   " +
				m.styles.Header.Render("n") + " discard",
		))
		return b.String()
	}

	for field := 0; field < fieldCount; field++ {
		label := fieldLabels[field]
		cursor := "  "
		if field == f.focus {
			cursor = m.styles.Selected.Render("> ")
		}
		b.WriteString(cursor)
		b.WriteString(m.styles.FieldLabel.Render(label))

		if field == fieldCategory {
			cat := "(none)"
			if f.catIdx >= 0 {
				cat = catalog.Categories[f.catIdx]
			}
			b.WriteString("< " + cat + " >")
		} else {
			b.WriteString(f.inputs[inputIndex[field]].View())
		}
		b.WriteString("\n")

		if msg, ok := f.errors[strings.ToLower(label)]; ok {
			b.WriteString("  ")
			b.WriteString(m.styles.FieldLabel.Render(""))
			b.WriteString(m.styles.FieldError.Render(msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("tab next field · enter save · esc cancel (keeps draft)"))
	return b.String()
}
