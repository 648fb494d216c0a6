package editor

import "github.com/starford/tagfield/internal/models"

// View is a read-only rendering of a session for presentation adapters.
type View struct {
	State        string      `json:"state"`
	Mode         string      `json:"mode"`
	TargetID     string      `json:"target_id,omitempty"`
	Query        string      `json:"query"`
	CanCreate    bool        `json:"can_create"`
	RenameBuffer string      `json:"rename_buffer,omitempty"`
	Rows         []Row       `json:"rows"`
	Selection    []string    `json:"selection"`
	Picker       *PickerView `json:"picker,omitempty"`
}

// PickerView renders an open color picker.
type PickerView struct {
	TagID  string       `json:"tag_id"`
	Seed   models.Color `json:"seed"`
	Chosen models.Color `json:"chosen"`
	Colors []Swatch     `json:"colors"`
}

// View renders the session.
func (s *Session) View() View {
	v := View{
		State:        s.state.String(),
		Mode:         s.sub.Mode.String(),
		TargetID:     s.sub.TagID,
		Query:        s.query,
		CanCreate:    s.CanCreate(),
		RenameBuffer: s.renameBuf,
		Rows:         s.Rows(),
		Selection:    s.sel.IDs(),
	}
	if p := s.picker; p != nil {
		v.Picker = &PickerView{
			TagID:  p.tagID,
			Seed:   p.seed,
			Chosen: p.chosen,
			Colors: p.Colors(),
		}
	}
	return v
}
