// Package config loads YAML configuration files into typed structs, expanding
// ${VAR} references from the environment first.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a required config file does not exist.
var ErrNotFound = errors.New("config file not found")

// Validator is implemented by config types that check themselves after load.
type Validator interface {
	Validate() error
}

// Load reads filename into target and validates it.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", filename, err)
	}
	if err := Decode(data, target); err != nil {
		return fmt.Errorf("config %s: %w", filename, err)
	}
	return nil
}

// LoadOptional behaves like Load, but a missing file leaves target's defaults
// in place and only validates them.
func LoadOptional[T any](filename string, target *T) error {
	err := Load(filename, target)
	if errors.Is(err, ErrNotFound) {
		return validate(target)
	}
	return err
}

// Decode expands environment references in data, unmarshals it into target
// and validates the result. Keys absent from data keep target's values.
func Decode[T any](data []byte, target *T) error {
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return validate(target)
}

func validate[T any](target *T) error {
	if v, ok := any(target).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}
	return nil
}
