// Package ui renders tag fields for the terminal using fatih/color.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/starford/tagfield/internal/models"
	"github.com/starford/tagfield/internal/tagfield"
)

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

// rgb decodes a "#RRGGBB" or "#RGB" color.
func rgb(c models.Color) (r, g, b int, ok bool) {
	s := strings.TrimPrefix(string(c), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

// FormatPill renders a tag name on its color, with dark or light text for
// contrast. Unparseable colors fall back to plain brackets.
func FormatPill(t models.Tag) string {
	r, g, b, ok := rgb(t.Color)
	if !ok {
		return "[" + t.Name + "]"
	}
	c := color.BgRGB(r, g, b)
	if 299*r+587*g+114*b > 128_000 {
		c.Add(color.FgBlack)
	} else {
		c.Add(color.FgWhite)
	}
	return c.Sprint(" " + t.Name + " ")
}

// FormatPills renders the inline summary of selected tags.
func FormatPills(tags []models.Tag) string {
	if len(tags) == 0 {
		return faint("no tags")
	}
	pills := make([]string, len(tags))
	for i, t := range tags {
		pills[i] = FormatPill(t)
	}
	return strings.Join(pills, " ")
}

// FormatField renders one line per field: entity, pills and an editing marker.
func FormatField(s tagfield.Summary) string {
	line := fmt.Sprintf("%s  %s", bold(s.Entity), FormatPills(s.Pills))
	if s.Editing {
		line += "  " + faint("(editing)")
	}
	return line + "\n"
}

// FormatTagTable lists every tag of a field, marking the selected ones.
func FormatTagTable(s tagfield.Summary) string {
	selected := make(map[string]bool, len(s.Selection))
	for _, id := range s.Selection {
		selected[id] = true
	}
	var sb strings.Builder
	for _, t := range s.Tags {
		mark := " "
		if selected[t.ID] {
			mark = "\u2713"
		}
		sb.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			mark, FormatPill(t), faint(t.Color.String()), faint(t.ID)))
	}
	return sb.String()
}
