// Package tui is a terminal front end for the idea list. The controller
// renders into it exactly as it would into any other document.
package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pbaille/ideas/internal/controller"
)

// Run starts the terminal UI against the backend until the user quits
func Run(ctx context.Context, backend controller.Backend, logger *slog.Logger) error {
	doc := newDocument()
	defer doc.close()

	c := controller.New(backend, doc, logger)
	p := tea.NewProgram(newModel(ctx, doc, c.Bootstrap), tea.WithAltScreen(), tea.WithContext(ctx))
	doc.attach(p)

	_, err := p.Run()
	return err
}
