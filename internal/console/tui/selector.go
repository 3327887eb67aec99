// Package tui holds the interactive bubbletea models of the console.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/console"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type entry[T console.Item] struct {
	item     T
	selected bool
}

func (e entry[T]) FilterValue() string { return e.item.Label() }

type delegate[T console.Item] struct{}

func (delegate[T]) Height() int                             { return 1 }
func (delegate[T]) Spacing() int                            { return 0 }
func (delegate[T]) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (delegate[T]) Render(w io.Writer, m list.Model, index int, it list.Item) {
	e, ok := it.(entry[T])
	if !ok {
		return
	}
	box := "[ ]"
	if e.selected {
		box = checkedStyle.Render("[x]")
	}
	line := fmt.Sprintf("%s %s", box, e.item.Label())
	if index == m.Index() {
		line = cursorStyle.Render("▸ ") + line
	} else {
		line = "  " + line
	}
	_, _ = fmt.Fprint(w, line)
}

type (
	loadedMsg[T console.Item] struct {
		items []T
		err   error
	}
	createdMsg[T console.Item] struct {
		item T
		err  error
	}
)

// SelectorModel drives a console.Selector: type to filter, space toggles,
// ctrl+n creates the filter text as a new entry, enter confirms.
type SelectorModel[T console.Item] struct {
	Selector  *console.Selector[T]
	Confirmed bool

	ctx  context.Context
	list list.Model
	err  error
}

func NewSelectorModel[T console.Item](ctx context.Context, title string, s *console.Selector[T]) SelectorModel[T] {
	l := list.New(nil, delegate[T]{}, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	return SelectorModel[T]{Selector: s, ctx: ctx, list: l}
}

func (m SelectorModel[T]) Init() tea.Cmd {
	s, ctx := m.Selector, m.ctx
	return func() tea.Msg {
		items, err := s.Fetcher(ctx)
		return loadedMsg[T]{items: items, err: err}
	}
}

func (m SelectorModel[T]) create(term string) tea.Cmd {
	s, ctx := m.Selector, m.ctx
	return func() tea.Msg {
		it, err := s.Creator(ctx, strings.TrimSpace(term))
		return createdMsg[T]{item: it, err: err}
	}
}

func (m *SelectorModel[T]) refresh() tea.Cmd {
	items := m.Selector.Items()
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = entry[T]{item: it, selected: m.Selector.IsSelected(it.ID())}
	}
	return m.list.SetItems(out)
}

func (m SelectorModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-2, msg.Height-4)
		return m, nil

	case loadedMsg[T]:
		if msg.err != nil {
			m.Selector.Fail(msg.err)
			m.err = msg.err
			return m, nil
		}
		m.Selector.Set(msg.items)
		m.err = nil
		return m, m.refresh()

	case createdMsg[T]:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.Selector.Accept(msg.item)
		m.err = nil
		m.list.ResetFilter()
		return m, m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+n":
			term := m.list.FilterInput.Value()
			if m.Selector.CanCreate(term) {
				return m, m.create(term)
			}
			return m, nil
		case "ctrl+r":
			if m.err != nil && !m.Selector.Loaded() {
				return m, m.Init()
			}
		}
		if m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case " ":
				if e, ok := m.list.SelectedItem().(entry[T]); ok {
					m.Selector.Toggle(e.item.ID())
					return m, m.refresh()
				}
				return m, nil
			case "enter":
				if !m.Selector.Multi {
					if e, ok := m.list.SelectedItem().(entry[T]); ok {
						m.Selector.Choose(e.item.ID())
					}
				}
				m.Confirmed = true
				return m, tea.Quit
			case "q", "esc":
				if m.list.FilterState() == list.Unfiltered {
					return m, tea.Quit
				}
			}
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m SelectorModel[T]) View() string {
	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n")
	switch {
	case m.err != nil && !m.Selector.Loaded():
		b.WriteString(errorStyle.Render("load failed: "+m.err.Error()) + mutedStyle.Render("  ctrl+r retry"))
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	default:
		help := "space toggle • enter confirm • / filter"
		if m.Selector.CanCreate(m.list.FilterInput.Value()) {
			help += fmt.Sprintf(" • ctrl+n create %q", m.list.FilterInput.Value())
		}
		b.WriteString(mutedStyle.Render(help))
	}
	return b.String()
}
