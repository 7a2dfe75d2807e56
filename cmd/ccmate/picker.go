package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// pickerItem is one selectable row. Key is returned by Selected; Label is shown.
type pickerItem struct {
	Key      string
	Label    string
	Selected bool
}

// pickerSection groups items under a header row.
type pickerSection struct {
	Header string
	Items  []pickerItem
}

// picker is a multi-select TUI where Enter toggles items and confirms at the bottom.
// Header rows are rendered but never receive the cursor.
type picker struct {
	title    string
	rows     []pickerItem
	headers  map[int]bool
	selected map[int]bool
	cursor   int
	done     bool
}

func newPicker(title string, sections []pickerSection) picker {
	p := picker{
		title:    title,
		headers:  make(map[int]bool),
		selected: make(map[int]bool),
	}
	for _, sec := range sections {
		if len(sec.Items) == 0 {
			continue
		}
		if sec.Header != "" {
			p.headers[len(p.rows)] = true
			p.rows = append(p.rows, pickerItem{Label: sec.Header})
		}
		for _, item := range sec.Items {
			if item.Selected {
				p.selected[len(p.rows)] = true
			}
			p.rows = append(p.rows, item)
		}
	}
	p.cursor = p.nextRow(-1, 1)
	return p
}

// nextRow returns the first non-header row after from in direction dir. The
// confirm button sits at len(rows).
func (p picker) nextRow(from, dir int) int {
	i := from + dir
	for i >= 0 && i < len(p.rows) && p.headers[i] {
		i += dir
	}
	if i < 0 {
		return p.cursor
	}
	if i > len(p.rows) {
		return len(p.rows)
	}
	return i
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			p.selected = nil
			p.done = true
			return p, tea.Quit
		case "up", "k":
			p.cursor = p.nextRow(p.cursor, -1)
		case "down", "j":
			p.cursor = p.nextRow(p.cursor, 1)
		case "enter":
			if p.cursor == len(p.rows) {
				p.done = true
				return p, tea.Quit
			}
			p.selected[p.cursor] = !p.selected[p.cursor]
		case "a":
			for i := range p.rows {
				if !p.headers[i] {
					p.selected[i] = true
				}
			}
		case "n":
			for i := range p.rows {
				p.selected[i] = false
			}
		}
	}
	return p, nil
}

func (p picker) View() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("  %s\n", headerStyle.Render(p.title)))
	b.WriteString(dimStyle.Render("  a: select all · n: select none") + "\n\n")

	for i, row := range p.rows {
		if p.headers[i] {
			b.WriteString(fmt.Sprintf("  %s\n", activeStyle.Render(row.Label)))
			continue
		}
		cursor := "  "
		if p.cursor == i {
			cursor = "> "
		}
		check := "[ ]"
		if p.selected[i] {
			check = enabledStyle.Render("[x]")
		}
		b.WriteString(fmt.Sprintf("  %s%s %s\n", cursor, check, row.Label))
	}

	b.WriteString("\n")
	if p.cursor == len(p.rows) {
		b.WriteString("  > [ Confirm ]\n")
	} else {
		b.WriteString("    [ Confirm ]\n")
	}

	return b.String()
}

// Selected returns the keys of the selected items, or nil if cancelled.
func (p picker) Selected() []string {
	if p.selected == nil {
		return nil
	}
	result := []string{}
	for i, row := range p.rows {
		if p.selected[i] && !p.headers[i] {
			result = append(result, row.Key)
		}
	}
	return result
}

// runPicker runs the multi-select picker and returns the selected keys.
// Cancelling returns huh.ErrUserAborted.
func runPicker(title string, sections []pickerSection) ([]string, error) {
	return runPickerModel(tea.NewProgram(newPicker(title, sections)))
}

type teaRunner interface {
	Run() (tea.Model, error)
}

func runPickerModel(program teaRunner) ([]string, error) {
	model, err := program.Run()
	if err != nil {
		return nil, err
	}
	selected := model.(picker).Selected()
	if selected == nil {
		return nil, huh.ErrUserAborted
	}
	return selected, nil
}
