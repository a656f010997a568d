// Package script loads setup descriptions from YAML and replays them through
// the editor, the same way a user would build them on the canvas.
package script

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/restynation/buythatworks/pkg/graph"
	"github.com/restynation/buythatworks/pkg/submission"
)

// Script is one setup description.
type Script struct {
	Name                 string       `yaml:"name"`
	Builder              string       `yaml:"builder"`
	Type                 string       `yaml:"type"`
	Comment              string       `yaml:"comment"`
	PIN                  string       `yaml:"pin"`
	BuiltinDisplayUsable *bool        `yaml:"builtin_display_usable"`
	Image                string       `yaml:"image"`
	Devices              []Device     `yaml:"devices"`
	Connections          []Connection `yaml:"connections"`

	// dir is where relative image paths are resolved from.
	dir string
}

// Device places one node. Product is matched against "brand model"; Name
// sets a custom name for device types without catalog products.
type Device struct {
	ID        string         `yaml:"id"`
	Type      string         `yaml:"type"`
	Product   string         `yaml:"product"`
	ProductID int            `yaml:"product_id"`
	Name      string         `yaml:"name"`
	At        graph.Position `yaml:"at"`
}

// Connection draws a cable. Handles are inferred when empty.
type Connection struct {
	From       string       `yaml:"from"`
	To         string       `yaml:"to"`
	FromHandle graph.Handle `yaml:"from_handle"`
	ToHandle   graph.Handle `yaml:"to_handle"`
	SourcePort string       `yaml:"source_port"`
	TargetPort string       `yaml:"target_port"`
}

// Load decodes a script. Unknown keys are rejected.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads a script from path. Image paths in it are relative to the
// script's directory.
func LoadFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

func (s *Script) check() error {
	seen := map[string]bool{}
	for i, d := range s.Devices {
		if d.ID == "" {
			return fmt.Errorf("device %d has no id", i+1)
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate device id %q", d.ID)
		}
		seen[d.ID] = true
		if d.Type == "" {
			return fmt.Errorf("device %q has no type", d.ID)
		}
	}
	for i, c := range s.Connections {
		if !seen[c.From] || !seen[c.To] {
			return fmt.Errorf("connection %d refers to an unknown device", i+1)
		}
	}
	return nil
}

// Form builds the submission form, reading the image file if one is named.
func (s *Script) Form() (submission.Form, error) {
	setupType := submission.SetupType(strings.ToLower(s.Type))
	if setupType == "" {
		setupType = submission.Current
	}
	form := submission.Form{
		Name:                 s.Name,
		BuilderName:          s.Builder,
		SetupType:            setupType,
		Comment:              s.Comment,
		PIN:                  s.PIN,
		BuiltinDisplayUsable: s.BuiltinDisplayUsable,
	}
	if s.Image != "" {
		path := s.Image
		if !filepath.IsAbs(path) && s.dir != "" {
			path = filepath.Join(s.dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return form, fmt.Errorf("reading image: %w", err)
		}
		form.Image = &submission.Image{Name: filepath.Base(path), Data: data}
	}
	return form, nil
}
