package filter

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"sigs.k8s.io/yaml"
)

// ProfileConfig describes a reusable set of filter rules that can be
// applied by name via --profile.
type ProfileConfig struct {
	Rules
	// Extends names a built-in profile to extend with these additional rules.
	Extends string `json:"extends,omitempty"`
	// Description is shown by the formats command.
	Description string `json:"description,omitempty"`
}

// builtinProfiles contains the built-in profile definitions.
var builtinProfiles = map[string]ProfileConfig{
	"no-types": {
		Description: "drop rdf:type statements",
		Rules: Rules{
			DenyPredicate: []string{`^http://www\.w3\.org/1999/02/22-rdf-syntax-ns#type$`},
		},
	},
	"no-schema": {
		Description: "drop RDF, RDFS and OWL vocabulary predicates",
		Rules: Rules{
			DenyPredicate: []string{
				`^http://www\.w3\.org/1999/02/22-rdf-syntax-ns#`,
				`^http://www\.w3\.org/2000/01/rdf-schema#`,
				`^http://www\.w3\.org/2002/07/owl#`,
			},
		},
	},
	"labels-only": {
		Description: "keep only label, name and title predicates",
		Rules: Rules{
			PassPredicate: []string{`(?i)(label|name|title)$`},
		},
	},
}

// BuiltinProfileNames returns the sorted names of all built-in profiles.
func BuiltinProfileNames() []string {
	return slices.Sorted(maps.Keys(builtinProfiles))
}

// ResolveProfile resolves a profile name to its configuration by checking
// built-in profiles first, then custom profiles. Returns an error if the
// profile name is not found in either source.
func ResolveProfile(name string, custom map[string]ProfileConfig) (ProfileConfig, error) {
	if p, ok := builtinProfiles[name]; ok {
		return p, nil
	}

	if p, ok := custom[name]; ok {
		if p.Extends != "" {
			base, err := ResolveProfile(p.Extends, nil)
			if err != nil {
				return ProfileConfig{}, fmt.Errorf("profile %q extends unknown profile %q", name, p.Extends)
			}

			return mergeProfiles(base, p), nil
		}

		return p, nil
	}

	return ProfileConfig{}, fmt.Errorf("unknown profile %q", name)
}

// mergeProfiles merges an extension profile on top of a base profile.
func mergeProfiles(base, ext ProfileConfig) ProfileConfig {
	desc := ext.Description
	if desc == "" {
		desc = base.Description
	}

	return ProfileConfig{
		Rules:       base.Rules.Merge(ext.Rules),
		Description: desc,
	}
}

// LoadCustomProfiles loads custom profile definitions from a YAML file.
// The file should contain a top-level "profiles" key.
func LoadCustomProfiles(path string) (map[string]ProfileConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("reading profiles file: %w", err)
	}

	return ParseCustomProfiles(data)
}

// ParseCustomProfiles parses profile definitions from YAML bytes.
func ParseCustomProfiles(data []byte) (map[string]ProfileConfig, error) {
	var raw struct {
		Profiles map[string]ProfileConfig `json:"profiles"`
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}

	if raw.Profiles == nil {
		return make(map[string]ProfileConfig), nil
	}

	return raw.Profiles, nil
}
