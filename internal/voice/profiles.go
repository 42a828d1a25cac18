package voice

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/examforge/examforge-admin/internal/bank"
)

// Profile is a named synthesis voice configuration operators can pick per
// run. The zero file is fine: Default() always exists.
type Profile struct {
	Name     string  `yaml:"name" json:"name"`
	Voice    string  `yaml:"voice" json:"voice"`
	Language string  `yaml:"language" json:"language"`
	Speed    float64 `yaml:"speed" json:"speed"`
}

// Config converts the profile to the bank's wire shape.
func (p Profile) Config() bank.VoiceConfig {
	return bank.VoiceConfig{Voice: p.Voice, Language: p.Language, Speed: p.Speed}
}

func Default() Profile {
	return Profile{Name: "default", Voice: "en-US-standard", Language: "en-US", Speed: 1.0}
}

type Registry struct {
	byName map[string]Profile
}

// Load reads named profiles from a YAML file:
//
//	profiles:
//	  - name: slow-uk
//	    voice: en-GB-standard
//	    language: en-GB
//	    speed: 0.8
//
// An empty path yields a registry with only the default profile.
func Load(path string) (*Registry, error) {
	r := &Registry{byName: map[string]Profile{}}
	r.add(Default())
	if path == "" {
		return r, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("voice profiles: %w", err)
	}
	var doc struct {
		Profiles []Profile `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("voice profiles %s: %w", path, err)
	}
	for _, p := range doc.Profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("voice profiles %s: profile without a name", path)
		}
		if p.Speed == 0 {
			p.Speed = 1.0
		}
		r.add(p)
	}
	return r, nil
}

func (r *Registry) add(p Profile) { r.byName[p.Name] = p }

// Get returns the named profile, or the default when name is empty.
func (r *Registry) Get(name string) (Profile, bool) {
	if name == "" {
		return Default(), true
	}
	p, ok := r.byName[name]
	return p, ok
}

// Names lists registered profile names, for operator UIs.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	return out
}
