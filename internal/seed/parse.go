package seed

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/starford/tagfield/internal/apperr"
	"github.com/starford/tagfield/internal/tagfield"
)

// Parse decodes and validates a seed file:
//
//	tags:
//	  - id: tag-1
//	    name: Work
//	    color: "#FF6B6B"
//	selected: [tag-1]
//
// Tag names are trimmed.
func Parse(data []byte) (tagfield.Snapshot, error) {
	var snap tagfield.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return tagfield.Snapshot{}, fmt.Errorf("seed: parse: %w: %v", apperr.ErrInvalidInput, err)
	}
	if err := snap.Validate(); err != nil {
		return tagfield.Snapshot{}, fmt.Errorf("seed: %w: %v", apperr.ErrInvalidInput, err)
	}
	return snap.Normalized(), nil
}
