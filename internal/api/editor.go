package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tagfield/internal/apperr"
	"github.com/starford/tagfield/internal/editor"
)

// editorAction runs against the open session of the request's field and may
// decorate the response.
type editorAction func(s *editor.Session, resp *EditorResponse) error

// edit runs act inside the field's session and writes the resulting editor
// and field views.
func (h *Handler) edit(w http.ResponseWriter, r *http.Request, act editorAction) {
	f, err := h.field(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var resp EditorResponse
	err = f.Edit(func(s *editor.Session) error {
		if err := act(s, &resp); err != nil {
			return err
		}
		if s.State() == editor.StateOpen {
			v := s.View()
			resp.Editor = &v
		}
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp.Field = f.Summary()
	writeJSON(w, http.StatusOK, resp)
}

// OpenEditor handles POST /api/fields/{entity}/editor.
//
//	@Summary		Open the tag editor over the committed state
//	@Tags			editor
//	@Produce		json
//	@Param			entity	path		string	true	"Entity id"
//	@Success		201		{object}	EditorResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse	"Editor already open"
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor [post]
func (h *Handler) OpenEditor(w http.ResponseWriter, r *http.Request) {
	f, err := h.field(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := f.Open(); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := f.View()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, EditorResponse{Editor: &v, Field: f.Summary()})
}

// GetEditor handles GET /api/fields/{entity}/editor.
//
//	@Summary		Render the open editor
//	@Tags			editor
//	@Produce		json
//	@Param			entity	path		string	true	"Entity id"
//	@Success		200		{object}	EditorResponse
//	@Failure		409		{object}	errResponse	"No editor open"
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor [get]
func (h *Handler) GetEditor(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(*editor.Session, *EditorResponse) error { return nil })
}

// CancelEditor handles DELETE /api/fields/{entity}/editor.
//
//	@Summary		Discard the draft and close the editor
//	@Tags			editor
//	@Produce		json
//	@Param			entity	path		string	true	"Entity id"
//	@Success		200		{object}	EditorResponse
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor [delete]
func (h *Handler) CancelEditor(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(s *editor.Session, _ *EditorResponse) error {
		return s.Cancel()
	})
}

// SaveEditor handles POST /api/fields/{entity}/editor/save.
//
//	@Summary		Publish the draft and close the editor
//	@Tags			editor
//	@Produce		json
//	@Param			entity	path		string	true	"Entity id"
//	@Success		200		{object}	EditorResponse
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor/save [post]
func (h *Handler) SaveEditor(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(s *editor.Session, _ *EditorResponse) error {
		return s.Save()
	})
}

// DismissEditor handles POST /api/fields/{entity}/editor/dismiss, an
// interaction outside the innermost open overlay.
//
//	@Summary		Close the innermost overlay
//	@Tags			editor
//	@Produce		json
//	@Param			entity	path		string	true	"Entity id"
//	@Success		200		{object}	EditorResponse
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor/dismiss [post]
func (h *Handler) DismissEditor(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(s *editor.Session, resp *EditorResponse) error {
		layer, err := s.Dismiss()
		resp.Layer = layer.String()
		return err
	})
}

// SetQuery handles PUT /api/fields/{entity}/editor/query.
//
//	@Summary		Set the filter text
//	@Tags			editor
//	@Accept			json
//	@Produce		json
//	@Param			entity	path		string			true	"Entity id"
//	@Param			body	body		QueryRequest	true	"Query"
//	@Success		200		{object}	EditorResponse
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor/query [put]
func (h *Handler) SetQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.edit(w, r, func(s *editor.Session, _ *EditorResponse) error {
		return s.SetQuery(req.Query)
	})
}

// CreateTag handles POST /api/fields/{entity}/editor/create.
//
//	@Summary		Create a tag named after the query and select it
//	@Tags			editor
//	@Produce		json
//	@Param			entity	path		string	true	"Entity id"
//	@Success		200		{object}	EditorResponse	"result.changed is false for a blank query"
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor/create [post]
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(s *editor.Session, resp *EditorResponse) error {
		tag, created, err := s.CreateFromQuery()
		if err != nil {
			return err
		}
		resp.Result = &ActionResult{Changed: created}
		if created {
			resp.Tag = &tag
		}
		return nil
	})
}

// ToggleTag handles POST /api/fields/{entity}/editor/toggle/{tagID}.
//
//	@Summary		Toggle a tag's selection (published immediately)
//	@Tags			editor
//	@Produce		json
//	@Param			entity	path		string	true	"Entity id"
//	@Param			tagID	path		string	true	"Tag id"
//	@Success		200		{object}	EditorResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor/toggle/{tagID} [post]
func (h *Handler) ToggleTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tagID")
	h.edit(w, r, func(s *editor.Session, _ *EditorResponse) error {
		_, err := s.ToggleSelection(id)
		return err
	})
}

// BeginRename handles POST /api/fields/{entity}/editor/tags/{tagID}/rename.
//
//	@Summary		Enter rename mode for a tag
//	@Tags			editor
//	@Produce		json
//	@Param			entity	path		string	true	"Entity id"
//	@Param			tagID	path		string	true	"Tag id"
//	@Success		200		{object}	EditorResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor/tags/{tagID}/rename [post]
func (h *Handler) BeginRename(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tagID")
	h.edit(w, r, func(s *editor.Session, _ *EditorResponse) error {
		return s.BeginRename(id)
	})
}

// EditRename handles PATCH /api/fields/{entity}/editor/tags/{tagID}/rename.
//
//	@Summary		Update the rename buffer
//	@Tags			editor
//	@Accept			json
//	@Produce		json
//	@Param			entity	path		string			true	"Entity id"
//	@Param			tagID	path		string			true	"Tag id"
//	@Param			body	body		RenameRequest	true	"Buffer text"
//	@Success		200		{object}	EditorResponse
//	@Failure		409		{object}	errResponse	"Not renaming this tag"
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor/tags/{tagID}/rename [patch]
func (h *Handler) EditRename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "tagID")
	h.edit(w, r, func(s *editor.Session, _ *EditorResponse) error {
		if sub := s.SubMode(); sub.Mode != editor.ModeRenaming || sub.TagID != id {
			return apperr.ErrConflict
		}
		return s.EditRename(req.Text())
	})
}

// CommitRename handles PUT /api/fields/{entity}/editor/tags/{tagID}/rename.
// Without a name key in the body the rename buffer is committed; an explicit
// empty name leaves the tag unchanged.
//
//	@Summary		Commit a rename
//	@Tags			editor
//	@Accept			json
//	@Produce		json
//	@Param			entity	path		string			true	"Entity id"
//	@Param			tagID	path		string			true	"Tag id"
//	@Param			body	body		RenameRequest	false	"New name"
//	@Success		200		{object}	EditorResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse	"Blank name"
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor/tags/{tagID}/rename [put]
func (h *Handler) CommitRename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "tagID")
	h.edit(w, r, func(s *editor.Session, _ *EditorResponse) error {
		name := req.Text()
		if sub := s.SubMode(); req.Name == nil && sub.Mode == editor.ModeRenaming && sub.TagID == id {
			name = s.RenameBuffer()
		}
		return s.CommitRename(id, name)
	})
}

// CancelRename handles DELETE /api/fields/{entity}/editor/tags/{tagID}/rename.
//
//	@Summary		Leave rename mode without renaming
//	@Tags			editor
//	@Produce		json
//	@Param			entity	path		string	true	"Entity id"
//	@Param			tagID	path		string	true	"Tag id"
//	@Success		200		{object}	EditorResponse
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor/tags/{tagID}/rename [delete]
func (h *Handler) CancelRename(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(s *editor.Session, _ *EditorResponse) error {
		return s.CancelRename()
	})
}

// DeleteTag handles DELETE /api/fields/{entity}/editor/tags/{tagID}.
//
//	@Summary		Delete a tag from the draft
//	@Tags			editor
//	@Produce		json
//	@Param			entity	path		string	true	"Entity id"
//	@Param			tagID	path		string	true	"Tag id"
//	@Success		200		{object}	EditorResponse	"result.changed is false when the tag was absent"
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor/tags/{tagID} [delete]
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tagID")
	h.edit(w, r, func(s *editor.Session, resp *EditorResponse) error {
		deleted, err := s.DeleteTag(id)
		resp.Result = &ActionResult{Changed: deleted}
		return err
	})
}

// BeginColorPick handles POST /api/fields/{entity}/editor/tags/{tagID}/color.
//
//	@Summary		Open the color picker for a tag
//	@Tags			editor
//	@Produce		json
//	@Param			entity	path		string	true	"Entity id"
//	@Param			tagID	path		string	true	"Tag id"
//	@Success		200		{object}	EditorResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor/tags/{tagID}/color [post]
func (h *Handler) BeginColorPick(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tagID")
	h.edit(w, r, func(s *editor.Session, _ *EditorResponse) error {
		_, err := s.BeginColorPick(id)
		return err
	})
}

// PickColor handles PUT /api/fields/{entity}/editor/color.
//
//	@Summary		Pick a color in the open picker
//	@Tags			editor
//	@Accept			json
//	@Produce		json
//	@Param			entity	path		string			true	"Entity id"
//	@Param			body	body		ColorRequest	true	"Color"
//	@Success		200		{object}	EditorResponse
//	@Failure		409		{object}	errResponse	"No picker open"
//	@Failure		422		{object}	errResponse	"Color rejected; the picker stays open"
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor/color [put]
func (h *Handler) PickColor(w http.ResponseWriter, r *http.Request) {
	var req ColorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.withPicker(w, r, func(p *editor.ColorPicker) error {
		return p.Pick(req.Color)
	})
}

// DismissPicker handles DELETE /api/fields/{entity}/editor/color.
//
//	@Summary		Close the picker keeping the current color
//	@Tags			editor
//	@Produce		json
//	@Param			entity	path		string	true	"Entity id"
//	@Success		200		{object}	EditorResponse
//	@Failure		409		{object}	errResponse	"No picker open"
//	@Security		BearerAuth
//	@Router			/fields/{entity}/editor/color [delete]
func (h *Handler) DismissPicker(w http.ResponseWriter, r *http.Request) {
	h.withPicker(w, r, (*editor.ColorPicker).Dismiss)
}

func (h *Handler) withPicker(w http.ResponseWriter, r *http.Request, fn func(p *editor.ColorPicker) error) {
	h.edit(w, r, func(s *editor.Session, _ *EditorResponse) error {
		p := s.Picker()
		if p == nil {
			return apperr.ErrPickerClosed
		}
		return fn(p)
	})
}
