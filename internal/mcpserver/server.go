// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes tag field editing tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/tagfield/internal/editor"
	"github.com/starford/tagfield/internal/models"
	"github.com/starford/tagfield/internal/palette"
	"github.com/starford/tagfield/internal/tagfield"
)

// Resource URIs.
const (
	PaletteURI  = "tagfield://palette"
	ContractURI = "tagfield://editor-contract"
)

// Server wraps the MCP server with tag field tools.
type Server struct {
	mcp     *server.MCPServer
	reg     *tagfield.Registry
	catalog *palette.Catalog
}

// New creates a new MCP server with all tag field tools registered.
func New(reg *tagfield.Registry, catalog *palette.Catalog) *Server {
	s := &Server{reg: reg, catalog: catalog}

	s.mcp = server.NewMCPServer(
		"tagfield",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	entity := mcp.WithString("entity", mcp.Required(), mcp.Description("Entity id that owns the tag field"))
	tagID := mcp.WithString("tag_id", mcp.Required(), mcp.Description("Tag id"))

	s.mcp.AddTool(mcp.NewTool("list_fields",
		mcp.WithDescription("List every tag field with its selected tags (pills)."),
	), s.listFields)

	s.mcp.AddTool(mcp.NewTool("get_field",
		mcp.WithDescription("Get the committed tags, selection and checksum of one field."),
		entity,
	), s.getField)

	s.mcp.AddTool(mcp.NewTool("open_editor",
		mcp.WithDescription("Open the tag editor on a field. Structural edits stay in a draft "+
			"until save_editor; selection toggles are published immediately. "+
			"Read the contract via get_editor_contract or the "+ContractURI+" resource."),
		entity,
	), s.openEditor)

	s.mcp.AddTool(mcp.NewTool("get_editor",
		mcp.WithDescription("Render the open editor: visible rows, query, mode and color picker."),
		entity,
	), s.getEditor)

	s.mcp.AddTool(mcp.NewTool("set_query",
		mcp.WithDescription("Set the editor's filter text. Matching is a case-insensitive substring."),
		entity,
		mcp.WithString("query", mcp.Description("Filter text; empty shows every tag")),
	), s.setQuery)

	s.mcp.AddTool(mcp.NewTool("toggle_tag",
		mcp.WithDescription("Select or deselect a tag. The field's selection updates at once, even if the editor is later cancelled."),
		entity, tagID,
	), s.toggleTag)

	s.mcp.AddTool(mcp.NewTool("create_tag",
		mcp.WithDescription("Create a tag in the draft and select it. Without name, the current query is used."),
		entity,
		mcp.WithString("name", mcp.Description("Tag name; surrounding whitespace is trimmed")),
	), s.createTag)

	s.mcp.AddTool(mcp.NewTool("rename_tag",
		mcp.WithDescription("Rename a tag in the draft."),
		entity, tagID,
		mcp.WithString("name", mcp.Required(), mcp.Description("New name; must not be blank")),
	), s.renameTag)

	s.mcp.AddTool(mcp.NewTool("recolor_tag",
		mcp.WithDescription("Change a tag's color in the draft. See list_colors for the catalog."),
		entity, tagID,
		mcp.WithString("color", mcp.Required(), mcp.Description("Hex color such as #4ECDC4")),
	), s.recolorTag)

	s.mcp.AddTool(mcp.NewTool("delete_tag",
		mcp.WithDescription("Delete a tag from the draft and drop it from the selection."),
		entity, tagID,
	), s.deleteTag)

	s.mcp.AddTool(mcp.NewTool("save_editor",
		mcp.WithDescription("Publish the draft to the field and close the editor."),
		entity,
	), s.saveEditor)

	s.mcp.AddTool(mcp.NewTool("cancel_editor",
		mcp.WithDescription("Discard the draft and close the editor."),
		entity,
	), s.cancelEditor)

	s.mcp.AddTool(mcp.NewTool("list_colors",
		mcp.WithDescription("List the color catalog."),
	), s.listColors)

	s.mcp.AddTool(mcp.NewTool("get_editor_contract",
		mcp.WithDescription("Returns the tag editor contract: which actions publish immediately and which wait for save."),
	), s.getEditorContract)

	s.mcp.AddResource(
		mcp.NewResource(PaletteURI, "Color Catalog",
			mcp.WithResourceDescription("Colors offered by the tag color picker."),
			mcp.WithMIMEType("application/json"),
		),
		s.readPaletteResource,
	)
	s.mcp.AddResource(
		mcp.NewResource(ContractURI, "Tag Editor Contract",
			mcp.WithResourceDescription("How draft edits, live selection and save interact."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) field(req mcp.CallToolRequest) (*tagfield.Field, error) {
	entity, err := req.RequireString("entity")
	if err != nil {
		return nil, err
	}
	return s.reg.Get(entity)
}

// edit runs fn in the field's open session and returns the editor view, or
// the field summary once the session has closed.
func (s *Server) edit(req mcp.CallToolRequest, fn func(s *editor.Session) error) (*mcp.CallToolResult, error) {
	f, err := s.field(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var view *editor.View
	err = f.Edit(func(sess *editor.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		if sess.State() == editor.StateOpen {
			v := sess.View()
			view = &v
		}
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if view != nil {
		return jsonResult(view)
	}
	return jsonResult(f.Summary())
}

func (s *Server) listFields(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entities := s.reg.Entities()
	if len(entities) == 0 {
		return mcp.NewToolResultText("no fields"), nil
	}
	var lines []string
	for _, e := range entities {
		f, err := s.reg.Get(e)
		if err != nil {
			continue
		}
		names := make([]string, 0)
		for _, t := range f.Pills() {
			names = append(names, t.Name)
		}
		lines = append(lines, fmt.Sprintf("%s: %s", e, strings.Join(names, ", ")))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getField(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := s.field(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(f.Summary())
}

func (s *Server) openEditor(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := s.field(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := f.Open(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.edit(req, func(*editor.Session) error { return nil })
}

func (s *Server) getEditor(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.edit(req, func(*editor.Session) error { return nil })
}

func (s *Server) setQuery(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	return s.edit(req, func(sess *editor.Session) error {
		return sess.SetQuery(query)
	})
}

func (s *Server) toggleTag(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("tag_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.edit(req, func(sess *editor.Session) error {
		_, err := sess.ToggleSelection(id)
		return err
	})
}

func (s *Server) createTag(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	return s.edit(req, func(sess *editor.Session) error {
		if name != "" {
			if err := sess.SetQuery(name); err != nil {
				return err
			}
		}
		_, created, err := sess.CreateFromQuery()
		if err != nil {
			return err
		}
		if !created {
			return fmt.Errorf("nothing to create: name and query are blank")
		}
		return nil
	})
}

func (s *Server) renameTag(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("tag_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.edit(req, func(sess *editor.Session) error {
		return sess.CommitRename(id, name)
	})
}

func (s *Server) recolorTag(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("tag_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	color, err := req.RequireString("color")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.edit(req, func(sess *editor.Session) error {
		p, err := sess.BeginColorPick(id)
		if err != nil {
			return err
		}
		if err := p.Pick(models.Color(color)); err != nil {
			_ = p.Dismiss()
			return err
		}
		return nil
	})
}

func (s *Server) deleteTag(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("tag_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.edit(req, func(sess *editor.Session) error {
		deleted, err := sess.DeleteTag(id)
		if err == nil && !deleted {
			return fmt.Errorf("tag %q not in the draft", id)
		}
		return err
	})
}

func (s *Server) saveEditor(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.edit(req, (*editor.Session).Save)
}

func (s *Server) cancelEditor(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.edit(req, (*editor.Session).Cancel)
}

func (s *Server) listColors(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cols := s.catalog.Colors()
	lines := make([]string, len(cols))
	for i, c := range cols {
		lines[i] = c.String()
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getEditorContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(EditorContract), nil
}

func (s *Server) readPaletteResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := json.Marshal(map[string]any{
		"colors": s.catalog.Colors(),
		"strict": s.catalog.IsStrict(),
	})
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      PaletteURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}

func (s *Server) readContractResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ContractURI,
			MIMEType: "text/markdown",
			Text:     EditorContract,
		},
	}, nil
}
