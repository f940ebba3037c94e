package tui

import (
	"fmt"
)

type pickerKind int

const (
	pickClasses pickerKind = iota
	pickUnits
)

// picker is a checkbox list over a fixed set of options.
type picker struct {
	kind    pickerKind
	title   string
	options []string
	checked map[string]bool
	cursor  int
}

func newPicker(kind pickerKind, title string, options, selected []string) picker {
	p := picker{
		kind:    kind,
		title:   title,
		options: options,
		checked: make(map[string]bool, len(selected)),
	}
	for _, s := range selected {
		p.checked[s] = true
	}
	return p
}

func (p *picker) move(delta int) {
	if len(p.options) == 0 {
		return
	}
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = len(p.options) - 1
	}
	if p.cursor >= len(p.options) {
		p.cursor = 0
	}
}

func (p *picker) toggle() {
	if p.cursor < 0 || p.cursor >= len(p.options) {
		return
	}
	opt := p.options[p.cursor]
	if p.checked[opt] {
		delete(p.checked, opt)
		return
	}
	p.checked[opt] = true
}

func (p *picker) clear() {
	p.checked = map[string]bool{}
}

// selection returns the checked options in display order. Options that are
// no longer offered are dropped.
func (p picker) selection() []string {
	var out []string
	for _, opt := range p.options {
		if p.checked[opt] {
			out = append(out, opt)
		}
	}
	return out
}

// lines renders at most height options, scrolled so the cursor is visible.
func (p picker) lines(width, height int) []string {
	if len(p.options) == 0 {
		return []string{headerStyle.Render("Nothing to choose from.")}
	}
	start, end := 0, len(p.options)
	if height > 0 && end > height {
		if p.cursor >= height {
			start = p.cursor - height + 1
		}
		end = start + height
	}
	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		opt := p.options[i]
		pointer := " "
		if i == p.cursor {
			pointer = ">"
		}
		box := "[ ]"
		if p.checked[opt] {
			box = "[x]"
		}
		line := truncateLine(fmt.Sprintf("%s %s %s", pointer, box, opt), width)
		if i == p.cursor {
			line = titleStyle.Render(line)
		}
		out = append(out, line)
	}
	return out
}
