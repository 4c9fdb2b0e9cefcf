package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pbaille/ideas/internal/controller"
	"github.com/pbaille/ideas/internal/dom"
	"github.com/pbaille/ideas/internal/render"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeConfirm
)

// ideaItem adapts a rendered entry to bubbles/list.Item
type ideaItem struct {
	entry dom.Entry
}

func (i ideaItem) Title() string       { return i.entry.Title }
func (i ideaItem) Description() string { return i.entry.Description }
func (i ideaItem) FilterValue() string {
	return i.entry.Title + " " + strings.Join(i.entry.Tags, " ")
}

// ideaDelegate renders an entry on two lines: title with likes, then tags and description
type ideaDelegate struct{}

func (d ideaDelegate) Height() int                               { return 2 }
func (d ideaDelegate) Spacing() int                              { return 1 }
func (d ideaDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d ideaDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(ideaItem)
	if !ok {
		return
	}
	e := it.entry

	prefix := "  "
	title := titleStyle.Render(e.Title)
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	likes := accentStyle.Render(fmt.Sprintf("♥ %d", e.Likes))
	fmt.Fprintf(w, "%s%s  %s  %s\n", prefix, title, likes, mutedStyle.Render("#"+e.ID))

	tags := make([]string, len(e.Tags))
	for i, t := range e.Tags {
		tags[i] = tagStyle.Render("[" + t + "]")
	}
	line := strings.TrimSpace(strings.Join(tags, " ") + " " + mutedStyle.Render(e.Description))
	fmt.Fprint(w, "  "+line)
}

var formLabels = []struct {
	field       string
	placeholder string
}{
	{controller.FieldTitle, "Title"},
	{controller.FieldDescription, "Description"},
	{controller.FieldTags, "Tags (comma separated)"},
}

// Size used until the terminal reports its own
const (
	defaultWidth  = 80
	defaultHeight = 24
)

type model struct {
	ctx  context.Context
	doc  *document
	boot func(context.Context)

	list   list.Model
	inputs []textinput.Model
	focus  int

	mode    mode
	busy    bool
	ready   bool
	status  string
	isError bool
	confirm *confirmMsg

	width, height int
}

func newModel(ctx context.Context, doc *document, boot func(context.Context)) model {
	l := list.New(nil, ideaDelegate{}, defaultWidth-4, defaultHeight-6)
	l.Title = "Ideas"
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("idea", "ideas")

	inputs := make([]textinput.Model, len(formLabels))
	for i, f := range formLabels {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = f.placeholder
		ti.CharLimit = 500
		inputs[i] = ti
	}

	return model{
		ctx:    ctx,
		doc:    doc,
		boot:   boot,
		list:   l,
		inputs: inputs,
		width:  defaultWidth,
		height: defaultHeight,
	}
}

var (
	refreshKey = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	likeKey    = key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like"))
	deleteKey  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	newKey     = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new idea"))
	quitKey    = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
)

// run executes a handler off the UI loop
func (m model) run(f func(ctx context.Context)) tea.Cmd {
	if f == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		f(ctx)
		return nil
	}
}

func (m model) Init() tea.Cmd {
	return m.run(m.boot)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case listMsg:
		items := make([]list.Item, len(msg.entries))
		for i, e := range msg.entries {
			items[i] = ideaItem{entry: e}
		}
		return m, m.list.SetItems(items)
	case alertMsg:
		m.status, m.isError = msg.text, true
		return m, nil
	case resetMsg:
		for i := range m.inputs {
			m.inputs[i].SetValue("")
			m.inputs[i].Blur()
		}
		m.mode = modeBrowse
		m.resize()
		m.status, m.isError = "Idea created", false
		return m, nil
	case busyMsg:
		m.busy = msg.busy
		return m, nil
	case boundMsg:
		m.ready = true
		return m, nil
	case confirmMsg:
		m.confirm = &msg
		m.mode = modeConfirm
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.mode {
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeAdd:
			return m.updateAdd(msg)
		}
		if m.list.FilterState() != list.Filtering {
			if next, cmd, handled := m.updateBrowse(msg); handled {
				return next, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) quit() (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		m.confirm.reply <- false
		m.confirm = nil
	}
	return m, tea.Quit
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	h := m.doc.bound()
	switch {
	case key.Matches(msg, quitKey):
		next, cmd := m.quit()
		return next, cmd, true
	case key.Matches(msg, refreshKey):
		m.status = ""
		return m, m.run(h.Refresh), true
	case key.Matches(msg, likeKey), key.Matches(msg, deleteKey):
		it, ok := m.list.SelectedItem().(ideaItem)
		if !ok || h.ListClick == nil {
			return m, nil, true
		}
		ctl := controller.Control{Attr: render.AttrLike, Value: it.entry.LikeID}
		if key.Matches(msg, deleteKey) {
			ctl = controller.Control{Attr: render.AttrDelete, Value: it.entry.DeleteID}
		}
		m.status = ""
		click := h.ListClick
		return m, m.run(func(ctx context.Context) { click(ctx, ctl) }), true
	case key.Matches(msg, newKey):
		m.mode = modeAdd
		m.focus = 0
		m.resize()
		return m, m.inputs[0].Focus(), true
	}
	return m, nil, false
}

func (m model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.inputs[m.focus].Blur()
		m.resize()
		return m, nil
	case "tab", "shift+tab":
		m.inputs[m.focus].Blur()
		step := 1
		if msg.String() == "shift+tab" {
			step = len(m.inputs) - 1
		}
		m.focus = (m.focus + step) % len(m.inputs)
		return m, m.inputs[m.focus].Focus()
	case "enter":
		h := m.doc.bound()
		if m.busy || h.Submit == nil {
			return m, nil
		}
		values := make(map[string]string, len(formLabels))
		for i, f := range formLabels {
			values[f.field] = m.inputs[i].Value()
		}
		m.doc.setFields(values)
		m.status = ""
		// cleared by the controller's busyMsg once the request is done
		m.busy = true
		return m, m.run(h.Submit)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer, answered bool
	switch msg.String() {
	case "y", "Y":
		answer, answered = true, true
	case "n", "N", "esc":
		answer, answered = false, true
	}
	if !answered || m.confirm == nil {
		return m, nil
	}
	m.confirm.reply <- answer
	m.confirm = nil
	m.mode = modeBrowse
	return m, nil
}

func (m *model) resize() {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	m.list.SetSize(w, m.listHeight())
}

func (m model) listHeight() int {
	h := m.height - 6
	if m.mode == modeAdd {
		h -= len(m.inputs) + 3
	}
	if h < 3 {
		h = 3
	}
	return h
}

func (m model) View() string {
	sections := []string{m.list.View()}

	switch m.mode {
	case modeAdd:
		title := "New idea"
		if m.busy {
			title += mutedStyle.Render(" (saving...)")
		}
		lines := []string{title}
		for _, in := range m.inputs {
			lines = append(lines, in.View())
		}
		lines = append(lines, helpStyle.Render("tab: next field   enter: submit   esc: cancel"))
		sections = append(sections, panelStyle.Render(strings.Join(lines, "\n")))
	case modeConfirm:
		if m.confirm != nil {
			sections = append(sections, panelStyle.Render(errorStyle.Render(m.confirm.text)+"\n"+helpStyle.Render("y: yes   n: no")))
		}
	}

	if m.status != "" {
		st := mutedStyle
		if m.isError {
			st = errorStyle
		}
		sections = append(sections, st.Render(m.status))
	}

	if m.mode == modeBrowse {
		var help []string
		for _, b := range []key.Binding{refreshKey, likeKey, deleteKey, newKey, quitKey} {
			h := b.Help()
			help = append(help, h.Key+": "+h.Desc)
		}
		if !m.ready {
			help = append(help, "loading...")
		}
		sections = append(sections, helpStyle.Render(strings.Join(help, "   ")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
