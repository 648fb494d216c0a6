package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "tags")
	p := writeFile(t, "name: ${SAMPLE_NAME}\nport: 9000\n")
	var s sample
	if err := Load(p, &s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "tags" || s.Port != 9000 {
		t.Errorf("got %+v", s)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	p := writeFile(t, "name: x\n")
	s := sample{Port: 8080}
	if err := Load(p, &s); err != nil {
		t.Fatal(err)
	}
	if s.Port != 8080 {
		t.Errorf("port = %d, want default kept", s.Port)
	}
}

func TestLoadValidates(t *testing.T) {
	p := writeFile(t, "port: 0\n")
	var s sample
	if err := Load(p, &s); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	var s sample
	if err := Load(missing, &s); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	s = sample{Port: 1}
	if err := LoadOptional(missing, &s); err != nil {
		t.Errorf("LoadOptional: %v", err)
	}
	s = sample{}
	if err := LoadOptional(missing, &s); err == nil {
		t.Error("LoadOptional should still validate defaults")
	}
}
