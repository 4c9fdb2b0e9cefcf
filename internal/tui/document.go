package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pbaille/ideas/internal/controller"
	"github.com/pbaille/ideas/internal/dom"
)

// Messages sent from controller goroutines into the Bubble Tea loop
type (
	listMsg    struct{ entries []dom.Entry }
	alertMsg   struct{ text string }
	resetMsg   struct{}
	busyMsg    struct{ busy bool }
	confirmMsg struct {
		text  string
		reply chan bool
	}
	boundMsg struct{}
)

// sender is the part of *tea.Program the document needs
type sender interface {
	Send(msg tea.Msg)
}

// document adapts the terminal UI to controller.Document. Every call arrives
// on a controller goroutine and is forwarded to the UI loop as a message.
type document struct {
	mu       sync.Mutex
	send     sender
	fields   map[string]string
	handlers controller.Handlers
	done     chan struct{}
}

func newDocument() *document {
	return &document{fields: map[string]string{}, done: make(chan struct{})}
}

// close releases goroutines waiting on a prompt once the UI has exited
func (d *document) close() {
	close(d.done)
}

func (d *document) attach(s sender) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.send = s
}

func (d *document) post(msg tea.Msg) {
	d.mu.Lock()
	s := d.send
	d.mu.Unlock()
	if s != nil {
		s.Send(msg)
	}
}

// setFields snapshots the form inputs right before a submission
func (d *document) setFields(values map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fields = values
}

func (d *document) bound() controller.Handlers {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.handlers
}

func (d *document) Form() controller.Form { return tuiForm{d} }

func (d *document) ReplaceList(markup string) {
	entries, err := dom.ParseEntries(markup)
	if err != nil {
		d.post(alertMsg{text: err.Error()})
		return
	}
	d.post(listMsg{entries: entries})
}

func (d *document) Alert(message string) { d.post(alertMsg{text: message}) }

// Confirm blocks until the user answers the prompt in the UI. It declines
// when the UI is not running.
func (d *document) Confirm(message string) bool {
	d.mu.Lock()
	s := d.send
	d.mu.Unlock()
	if s == nil {
		return false
	}

	reply := make(chan bool, 1)
	s.Send(confirmMsg{text: message, reply: reply})
	select {
	case ok := <-reply:
		return ok
	case <-d.done:
		return false
	}
}

func (d *document) Bind(h controller.Handlers) {
	d.mu.Lock()
	d.handlers = h
	d.mu.Unlock()
	d.post(boundMsg{})
}

type tuiForm struct {
	d *document
}

func (f tuiForm) Value(field string) string {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	return f.d.fields[field]
}

func (f tuiForm) Reset() {
	f.d.setFields(map[string]string{})
	f.d.post(resetMsg{})
}

func (f tuiForm) SetSubmitDisabled(disabled bool) {
	f.d.post(busyMsg{busy: disabled})
}
