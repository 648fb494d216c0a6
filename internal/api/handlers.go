package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tagfield/internal/palette"
	"github.com/starford/tagfield/internal/tagfield"
)

// Handler holds API route handlers.
type Handler struct {
	reg     *tagfield.Registry
	catalog *palette.Catalog
}

// NewHandler creates a new Handler.
func NewHandler(reg *tagfield.Registry, catalog *palette.Catalog) *Handler {
	return &Handler{reg: reg, catalog: catalog}
}

func (h *Handler) field(r *http.Request) (*tagfield.Field, error) {
	return h.reg.Get(chi.URLParam(r, "entity"))
}

func etag(sum string) string { return `"` + sum + `"` }

// GetPalette handles GET /api/palette.
//
//	@Summary		List the color catalog
//	@Tags			palette
//	@Produce		json
//	@Success		200	{object}	PaletteResponse
//	@Security		BearerAuth
//	@Router			/palette [get]
func (h *Handler) GetPalette(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, PaletteResponse{
		Colors: h.catalog.Colors(),
		Strict: h.catalog.IsStrict(),
	})
}

// ListFields handles GET /api/fields.
//
//	@Summary		List every field with its pills
//	@Tags			fields
//	@Produce		json
//	@Success		200	{object}	FieldListResponse
//	@Security		BearerAuth
//	@Router			/fields [get]
func (h *Handler) ListFields(w http.ResponseWriter, _ *http.Request) {
	out := []FieldSummary{}
	for _, entity := range h.reg.Entities() {
		f, err := h.reg.Get(entity)
		if err != nil {
			continue
		}
		out = append(out, f.Summary())
	}
	writeJSON(w, http.StatusOK, FieldListResponse{Fields: out, Total: len(out)})
}

// GetField handles GET /api/fields/{entity}.
//
//	@Summary		Get a field's committed state
//	@Tags			fields
//	@Produce		json
//	@Param			entity			path		string	true	"Entity id"
//	@Param			If-None-Match	header		string	false	"Checksum from a previous response"
//	@Success		200				{object}	FieldSummary
//	@Success		304				"Unchanged"
//	@Failure		404				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fields/{entity} [get]
func (h *Handler) GetField(w http.ResponseWriter, r *http.Request) {
	f, err := h.field(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sum := f.Summary()
	w.Header().Set("ETag", etag(sum.Checksum))
	if strings.Trim(r.Header.Get("If-None-Match"), `"`) == sum.Checksum {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// PutField handles PUT /api/fields/{entity}.
//
//	@Summary		Create a field or replace its committed state
//	@Tags			fields
//	@Accept			json
//	@Produce		json
//	@Param			entity		path		string			true	"Entity id"
//	@Param			If-Match	header		string			false	"Checksum for optimistic concurrency"
//	@Param			body		body		PutFieldRequest	true	"Tags and selection"
//	@Success		200			{object}	FieldSummary
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Failure		422			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fields/{entity} [put]
func (h *Handler) PutField(w http.ResponseWriter, r *http.Request) {
	var req PutFieldRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	entity := chi.URLParam(r, "entity")
	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	var f *tagfield.Field
	var err error
	if ifMatch != "" {
		if f, err = h.reg.Get(entity); err == nil {
			err = f.ReplaceIf(req, tagfield.SourceAPI, ifMatch)
		}
	} else {
		f, err = h.reg.Put(entity, req, tagfield.SourceAPI)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	sum := f.Summary()
	w.Header().Set("ETag", etag(sum.Checksum))
	writeJSON(w, http.StatusOK, sum)
}
