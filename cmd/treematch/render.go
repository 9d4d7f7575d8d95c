package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agenthands/hiermatch/internal/core/model"
	"github.com/agenthands/hiermatch/internal/core/summary"
)

type styles struct {
	header    lipgloss.Style
	matched   lipgloss.Style
	leftOnly  lipgloss.Style
	rightOnly lipgloss.Style
	dim       lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		matched:   lipgloss.NewStyle(),
		leftOnly:  lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		rightOnly: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

type renderer struct {
	styles  styles
	verbose bool
}

// render prints one block per resource pair. Unless verbose, subtrees
// without one-sided nodes are collapsed into their matched root.
func (r renderer) render(c *model.Comparison) string {
	var b strings.Builder
	for i, p := range c.ResourcePairs {
		b.WriteString(r.styles.header.Render(pairTitle(p)))
		b.WriteString("\n")

		var ms []*model.Match
		if i < len(c.PairMatches) {
			ms = c.PairMatches[i]
		}
		for _, m := range ms {
			r.renderMatch(&b, c, m, 1)
		}
	}

	sum := summary.Summarize(c)
	b.WriteString(r.styles.dim.Render(fmt.Sprintf("%d matched, %d left-only, %d right-only",
		sum.Matched, sum.LeftOnly, sum.RightOnly)))
	b.WriteString("\n")

	if r.verbose && len(sum.ByType) > 0 {
		tags := make([]string, 0, len(sum.ByType))
		for tag := range sum.ByType {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			tc := sum.ByType[tag]
			b.WriteString(r.styles.dim.Render(fmt.Sprintf("  %s: %d matched, %d left-only, %d right-only",
				tag, tc.Matched, tc.LeftOnly, tc.RightOnly)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (r renderer) renderMatch(b *strings.Builder, c *model.Comparison, m *model.Match, depth int) {
	indent := strings.Repeat("  ", depth)
	switch {
	case m.IsMatched():
		line := indent + "= " + describe(c.Left.Ref(m.Left))
		if !r.verbose && !changed(m) {
			b.WriteString(r.styles.dim.Render(line))
			b.WriteString("\n")
			return
		}
		b.WriteString(r.styles.matched.Render(line))
	case m.IsLeftOnly():
		b.WriteString(r.styles.leftOnly.Render(indent + "- " + describe(c.Left.Ref(m.Left))))
	default:
		b.WriteString(r.styles.rightOnly.Render(indent + "+ " + describe(c.Right.Ref(m.Right))))
	}
	b.WriteString("\n")

	for _, sub := range m.Submatches {
		r.renderMatch(b, c, sub, depth+1)
	}
}

func changed(m *model.Match) bool {
	if !m.IsMatched() {
		return true
	}
	for _, sub := range m.Submatches {
		if changed(sub) {
			return true
		}
	}
	return false
}

func describe(n model.NodeRef) string {
	if n.Label() == "" {
		return n.TypeTag()
	}
	return n.TypeTag() + " " + n.Label()
}

func pairTitle(p model.ResourcePair) string {
	switch {
	case p.Left == nil:
		return "+ " + p.Right.Name
	case p.Right == nil:
		return "- " + p.Left.Name
	case p.Left.Name == p.Right.Name:
		return p.Left.Name
	default:
		return p.Left.Name + " <-> " + p.Right.Name
	}
}
