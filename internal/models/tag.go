// Package models defines the domain types for tag fields.
package models

import "strings"

// Color is a hex color value such as "#FF6B6B".
type Color string

// String implements fmt.Stringer.
func (c Color) String() string { return string(c) }

// Tag is a named, colored label with a stable identifier.
type Tag struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color Color  `json:"color" yaml:"color"`
}

// NormalizeName trims surrounding whitespace from a tag name. Case is kept.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// IDs returns the identifiers of tags in order.
func IDs(tags []Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.ID
	}
	return out
}
