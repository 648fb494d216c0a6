package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tagfield/internal/editor"
	"github.com/starford/tagfield/internal/models"
	"github.com/starford/tagfield/internal/tagfield"
)

// FieldSummary is the inline view of a field (aliased from the domain layer).
type FieldSummary = tagfield.Summary

// FieldListResponse wraps the field listing.
type FieldListResponse struct {
	Fields []FieldSummary `json:"fields" validate:"required"`
	Total  int            `json:"total" example:"3" validate:"required"`
}

// PutFieldRequest replaces a field's committed state.
type PutFieldRequest = tagfield.Snapshot

// PaletteResponse lists the color catalog.
type PaletteResponse struct {
	Colors []models.Color `json:"colors" validate:"required"`
	Strict bool           `json:"strict"`
}

// EditorResponse is returned by every editor route. Editor is omitted once
// the session has been saved or cancelled.
type EditorResponse struct {
	Editor *editor.View  `json:"editor,omitempty"`
	Field  FieldSummary  `json:"field" validate:"required"`
	Layer  string        `json:"layer,omitempty" example:"color_picker"`
	Tag    *models.Tag   `json:"tag,omitempty"`
	Result *ActionResult `json:"result,omitempty"`
}

// ActionResult reports whether an idempotent action changed anything.
type ActionResult struct {
	Changed bool `json:"changed"`
}

// maxNameLength caps names accepted over HTTP, in runes. The core itself
// only rejects blank names.
const maxNameLength = 64

// QueryRequest sets the editor filter text. The query doubles as the name of
// a tag created from it.
type QueryRequest struct {
	Query string `json:"query" example:"wor"`
}

// Validate implements validation.Validatable.
func (r QueryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Query, validation.RuneLength(0, maxNameLength)),
	)
}

// RenameRequest carries rename text. A nil Name means the key was absent.
type RenameRequest struct {
	Name *string `json:"name" example:"Job"`
}

// Validate implements validation.Validatable.
func (r RenameRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.RuneLength(0, maxNameLength)),
	)
}

// Text returns Name, or "" when it was absent.
func (r RenameRequest) Text() string {
	if r.Name == nil {
		return ""
	}
	return *r.Name
}

// ColorRequest picks a color in the open color picker.
type ColorRequest struct {
	Color models.Color `json:"color" example:"#4ECDC4" validate:"required"`
}

// Validate implements validation.Validatable.
func (r ColorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Color, validation.Required),
	)
}
