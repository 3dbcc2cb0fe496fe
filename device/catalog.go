package device

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnknownDevice is returned by Lookup for names not in the catalog.
var ErrUnknownDevice = errors.New("device: unknown device")

// Catalog is a set of profiles keyed by lower-case name.
type Catalog struct {
	profiles map[string]Profile
}

// Builtin returns a catalog holding the built-in profiles.
func Builtin() *Catalog {
	c := &Catalog{profiles: make(map[string]Profile)}
	for _, p := range []Profile{Nexus5, Nexus7, Pixel5, Pixel6, WearSmallRound, WearSquare} {
		c.profiles[p.Name] = p
	}
	return c
}

// Add validates p and adds or replaces it.
func (c *Catalog) Add(p Profile) error {
	if p.Name == "" {
		return errors.New("device: profile has no name")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if c.profiles == nil {
		c.profiles = make(map[string]Profile)
	}
	c.profiles[strings.ToLower(p.Name)] = p
	return nil
}

// Lookup returns the profile called name, case-insensitively.
func (c *Catalog) Lookup(name string) (Profile, error) {
	p, ok := c.profiles[strings.ToLower(name)]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownDevice, name)
	}
	return p, nil
}

// Names returns the sorted profile names.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.profiles))
	for name := range c.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// catalogFile is the on-disk catalog layout.
type catalogFile struct {
	Devices []Profile `json:"devices" toml:"devices" yaml:"devices"`
}

// LoadCatalog reads profiles from a TOML, YAML or JSON file, chosen by
// extension, and layers them over the built-in catalog.
//
//	[[devices]]
//	name = "tablet_round"
//	screen_width = 800
//	screen_height = 800
//	density = 240
//	shape = "round"
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("device: read catalog: %w", err)
	}

	var file catalogFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &file); err != nil {
			return nil, fmt.Errorf("device: decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("device: decode YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("device: decode JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("device: unsupported catalog format %q", ext)
	}

	c := Builtin()
	for _, p := range file.Devices {
		if err := c.Add(p); err != nil {
			return nil, fmt.Errorf("device: %s: %w", path, err)
		}
	}
	return c, nil
}
