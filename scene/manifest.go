package scene

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/quarrel-cli/quarrel/constant"
	"github.com/quarrel-cli/quarrel/filesystem"
	"github.com/quarrel-cli/quarrel/util"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Slot is one speaker's entry in a manifest.
type Slot struct {
	Name    Name   `yaml:"slot" json:"slot" jsonschema:"enum=A,enum=B,enum=C,enum=D"`
	Speaker string `yaml:"speaker,omitempty" json:"speaker,omitempty" jsonschema:"description=Label shown in the player tabs"`
	Line    string `yaml:"line" json:"line" jsonschema:"maxLength=200,description=Caption and voice line"`
	Video   string `yaml:"video" json:"video" jsonschema:"description=Silent video loop. Bare names resolve under clips/"`
	Audio   string `yaml:"audio" json:"audio" jsonschema:"description=Voice line. Bare names resolve under voices/"`
}

// Manifest describes a scene on disk.
type Manifest struct {
	Title string `yaml:"title" json:"title"`
	Topic string `yaml:"topic,omitempty" json:"topic,omitempty"`
	// Assets overrides the directory clip and voice references resolve against.
	// Relative values are taken from the manifest's own directory.
	Assets string `yaml:"assets,omitempty" json:"assets,omitempty"`
	Slots  []Slot `yaml:"segments" json:"segments" jsonschema:"minItems=4,maxItems=4"`

	path string
}

// Path returns the file the manifest was loaded from or last written to.
func (m *Manifest) Path() string {
	return m.path
}

// Slot returns the entry for a slot name.
func (m *Manifest) Slot(n Name) (Slot, bool) {
	return lo.Find(m.Slots, func(s Slot) bool { return s.Name == n })
}

// Script collects the four lines.
func (m *Manifest) Script() Script {
	line := func(n Name) string {
		s, _ := m.Slot(n)
		return s.Line
	}
	return Script{LineA: line(A), LineB: line(B), LineC: line(C), LineD: line(D)}
}

// Clips collects the unresolved (video, audio) reference pairs in playback order.
func (m *Manifest) Clips() [Count]Clip {
	var clips [Count]Clip
	for i, n := range Names {
		if s, ok := m.Slot(n); ok {
			clips[i] = Clip{Video: s.Video, Audio: s.Audio}
		}
	}
	return clips
}

// ID is the stable key of a manifest, used for view counting.
func (m *Manifest) ID() string {
	if m.path != "" {
		return util.FileStem(m.path)
	}
	return m.Title
}

// Load reads and decodes a manifest.
func Load(path string) (*Manifest, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}

	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode scene %s: %w", path, err)
	}

	m.path = path
	return m, nil
}

// Decode parses a YAML manifest and normalises slot names.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}

	for i := range m.Slots {
		name, err := ParseName(string(m.Slots[i].Name))
		if err != nil {
			return nil, err
		}
		m.Slots[i].Name = name
	}

	return &m, nil
}

// Write encodes the manifest to path, creating parent directories as needed.
func (m *Manifest) Write(path string) error {
	if filepath.Ext(path) == "" {
		path += constant.SceneExtension
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if err := filesystem.API().MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := filesystem.API().WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write scene %s: %w", path, err)
	}

	m.path = path
	return nil
}
