// Package dom provides a headless document the controller can render into.
// The list container holds markup; clicks are resolved against the parsed
// tree the same way a browser's delegated click handler would see them.
package dom

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pbaille/ideas/internal/controller"
)

var (
	// ErrNotBound is returned when an event fires before Bootstrap bound handlers
	ErrNotBound = errors.New("no handler bound")

	// ErrNoControl is returned when a click targets a control that is not rendered
	ErrNoControl = errors.New("control not found")
)

// Document is an in-memory controller.Document
type Document struct {
	mu             sync.Mutex
	fields         map[string]string
	submitDisabled bool
	list           string
	alerts         []string
	confirm        func(message string) bool
	handlers       controller.Handlers
}

// New creates a Document. confirm answers delete prompts; nil declines every prompt.
func New(confirm func(message string) bool) *Document {
	if confirm == nil {
		confirm = func(string) bool { return false }
	}
	return &Document{
		fields:  map[string]string{},
		confirm: confirm,
	}
}

// SetField sets a form field value
func (d *Document) SetField(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fields[name] = value
}

// Field returns a form field value
func (d *Document) Field(name string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fields[name]
}

// SubmitDisabled reports whether the submit control is currently disabled
func (d *Document) SubmitDisabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submitDisabled
}

// List returns the current list container markup
func (d *Document) List() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.list
}

// Alerts returns every notification raised so far
func (d *Document) Alerts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.alerts...)
}

// Entries parses the rendered list
func (d *Document) Entries() ([]Entry, error) {
	return ParseEntries(d.List())
}

// Form implements controller.Document
func (d *Document) Form() controller.Form {
	return form{d}
}

// ReplaceList implements controller.Document
func (d *Document) ReplaceList(markup string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.list = markup
}

// Alert implements controller.Document
func (d *Document) Alert(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts = append(d.alerts, message)
}

// Confirm implements controller.Document
func (d *Document) Confirm(message string) bool {
	return d.confirm(message)
}

// Bind implements controller.Document
func (d *Document) Bind(h controller.Handlers) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = h
}

// Submit fires the form submission handler
func (d *Document) Submit(ctx context.Context) error {
	d.mu.Lock()
	h := d.handlers.Submit
	d.mu.Unlock()
	if h == nil {
		return fmt.Errorf("submit: %w", ErrNotBound)
	}
	h(ctx)
	return nil
}

// Refresh fires the refresh control handler
func (d *Document) Refresh(ctx context.Context) error {
	d.mu.Lock()
	h := d.handlers.Refresh
	d.mu.Unlock()
	if h == nil {
		return fmt.Errorf("refresh: %w", ErrNotBound)
	}
	h(ctx)
	return nil
}

// Click activates the rendered control carrying attr="value" and hands it to
// the delegated list handler
func (d *Document) Click(ctx context.Context, attr, value string) error {
	d.mu.Lock()
	h := d.handlers.ListClick
	markup := d.list
	d.mu.Unlock()
	if h == nil {
		return fmt.Errorf("click: %w", ErrNotBound)
	}

	ctl, err := FindControl(markup, attr, value)
	if err != nil {
		return err
	}
	h(ctx, ctl)
	return nil
}

type form struct {
	d *Document
}

func (f form) Value(field string) string {
	return f.d.Field(field)
}

func (f form) Reset() {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	f.d.fields = map[string]string{}
}

func (f form) SetSubmitDisabled(disabled bool) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	f.d.submitDisabled = disabled
}
