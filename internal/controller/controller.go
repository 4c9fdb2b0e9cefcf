// Package controller keeps a document's idea list in sync with the backend
// collection and turns user intents into remote operations.
//
// Every mutation is followed by a full re-fetch; the rendered list is always a
// projection of the last successful fetch and is never patched locally.
// Overlapping actions are not serialized, so when two refreshes race the last
// one to complete decides what is shown.
package controller

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pbaille/ideas/internal/domain"
	"github.com/pbaille/ideas/internal/render"
)

// Form field names
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldTags        = "tags"
)

// ConfirmDelete is the prompt shown before deleting an idea
const ConfirmDelete = "Delete this idea? This cannot be undone."

// Backend is the remote idea collection
type Backend interface {
	ListIdeas(ctx context.Context) ([]domain.Idea, error)
	CreateIdea(ctx context.Context, req domain.NewIdeaRequest) error
	LikeIdea(ctx context.Context, id domain.IdeaID) error
	DeleteIdea(ctx context.Context, id domain.IdeaID) error
}

// Form is the create-idea form
type Form interface {
	Value(field string) string
	Reset()
	SetSubmitDisabled(disabled bool)
}

// Control identifies an activated control in the list container by its data attribute
type Control struct {
	Attr  string
	Value string
}

// Handlers are the event callbacks bound by Bootstrap
type Handlers struct {
	Submit    func(ctx context.Context)
	Refresh   func(ctx context.Context)
	ListClick func(ctx context.Context, c Control)
}

// Document is the environment the controller renders into
type Document interface {
	Form() Form
	ReplaceList(markup string)
	Alert(message string)
	Confirm(message string) bool
	Bind(h Handlers)
}

// Controller implements the idea list view model
type Controller struct {
	backend Backend
	doc     Document
	log     *slog.Logger
	actions map[string]func(context.Context, domain.IdeaID)

	mu    sync.Mutex
	ideas []domain.Idea
}

// New creates a Controller. A nil logger discards debug output.
func New(backend Backend, doc Document, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		backend: backend,
		doc:     doc,
		log:     logger,
	}
	c.actions = map[string]func(context.Context, domain.IdeaID){
		render.AttrLike:   c.Like,
		render.AttrDelete: c.Delete,
	}
	return c
}

// Bootstrap loads the list once and binds the document events
func (c *Controller) Bootstrap(ctx context.Context) {
	c.LoadIdeas(ctx)
	c.doc.Bind(Handlers{
		Submit:    c.Submit,
		Refresh:   c.LoadIdeas,
		ListClick: c.Dispatch,
	})
}

// Ideas returns a copy of the last successfully fetched collection
func (c *Controller) Ideas() []domain.Idea {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Idea, len(c.ideas))
	copy(out, c.ideas)
	return out
}

// LoadIdeas fetches the collection and replaces the rendered list.
// On failure the previous list stays and the user is alerted.
func (c *Controller) LoadIdeas(ctx context.Context) {
	if err := c.refresh(ctx); err != nil {
		c.fail("Error loading ideas", err)
	}
}

func (c *Controller) refresh(ctx context.Context) error {
	ideas, err := c.backend.ListIdeas(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ideas = ideas
	c.doc.ReplaceList(render.Ideas(ideas))
	c.log.Debug("ideas loaded", "count", len(ideas))
	return nil
}

// Submit creates an idea from the form. The submit control is disabled while
// the request runs and the form is only reset after a successful create.
func (c *Controller) Submit(ctx context.Context) {
	form := c.doc.Form()
	form.SetSubmitDisabled(true)
	defer form.SetSubmitDisabled(false)

	req := domain.NewIdeaRequest{
		Title:       strings.TrimSpace(form.Value(FieldTitle)),
		Description: strings.TrimSpace(form.Value(FieldDescription)),
		Tags:        ParseTags(form.Value(FieldTags)),
	}

	if err := c.backend.CreateIdea(ctx, req); err != nil {
		c.fail("Could not create idea", err)
		return
	}
	c.log.Debug("idea created", "title", req.Title, "tags", len(req.Tags))

	form.Reset()
	c.LoadIdeas(ctx)
}

// Like increments an idea's like counter and reloads the list
func (c *Controller) Like(ctx context.Context, id domain.IdeaID) {
	if err := c.backend.LikeIdea(ctx, id); err != nil {
		c.fail("Could not like idea", err)
		return
	}
	c.log.Debug("idea liked", "id", id)
	c.LoadIdeas(ctx)
}

// Delete asks for confirmation, removes the idea and reloads the list.
// Declining the prompt sends nothing.
func (c *Controller) Delete(ctx context.Context, id domain.IdeaID) {
	if !c.doc.Confirm(ConfirmDelete) {
		return
	}
	if err := c.backend.DeleteIdea(ctx, id); err != nil {
		c.fail("Could not delete idea", err)
		return
	}
	c.log.Debug("idea deleted", "id", id)
	c.LoadIdeas(ctx)
}

// Dispatch routes a delegated list click to its action.
// Unknown controls and controls without an id are ignored.
func (c *Controller) Dispatch(ctx context.Context, ctl Control) {
	action, ok := c.actions[ctl.Attr]
	if !ok || ctl.Value == "" {
		return
	}
	action(ctx, domain.IdeaID(ctl.Value))
}

func (c *Controller) fail(prefix string, err error) {
	c.log.Debug(strings.ToLower(prefix), "error", err)
	c.doc.Alert(prefix + ": " + err.Error())
}

// ParseTags splits comma separated input, trims every piece and drops empty
// ones. Order and duplicates are kept.
func ParseTags(input string) []string {
	tags := []string{}
	for _, piece := range strings.Split(input, ",") {
		if t := strings.TrimSpace(piece); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
