package config

import (
	"fmt"
	"os"

	"github.com/hupe1980/semconvert/internal/filter"
	"github.com/hupe1980/semconvert/internal/version"
)

// InlineRules returns the rule lists set through flags, environment or the
// config file.
func (c *Config) InlineRules() filter.Rules {
	return filter.Rules{
		DenySubject:   c.DenySubjLike,
		PassSubject:   c.PassSubjLike,
		DenyPredicate: c.DenyPredLike,
		PassPredicate: c.PassPredLike,
		DenyObject:    c.DenyObjLike,
		PassObject:    c.PassObjLike,
		DenyEntity:    c.DenyEntityLike,
		PassEntity:    c.PassEntityLike,
	}
}

// CustomProfiles reads the profiles section of the config file in use.
// Without a config file the result is empty.
func (c *Config) CustomProfiles() (map[string]filter.ProfileConfig, error) {
	if c.ConfigFile == "" {
		return map[string]filter.ProfileConfig{}, nil
	}

	data, err := os.ReadFile(c.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", c.ConfigFile, err)
	}

	return filter.ParseCustomProfiles(data)
}

// FilterRules assembles the effective rule set: the selected profile,
// then the rules file, then the inline lists. Lists are concatenated per
// kind. A deny pattern from any source rejects a quad, while a pass list
// accepts a quad when any of its patterns matches, so a later source can
// widen what a profile passes.
func (c *Config) FilterRules() (filter.Rules, error) {
	var rules filter.Rules

	if c.Profile != "" {
		custom, err := c.CustomProfiles()
		if err != nil {
			return filter.Rules{}, err
		}

		profile, err := filter.ResolveProfile(c.Profile, custom)
		if err != nil {
			return filter.Rules{}, err
		}

		rules = profile.Rules
	}

	if c.RulesFile != "" {
		fromFile, err := filter.LoadRules(c.RulesFile)
		if err != nil {
			return filter.Rules{}, err
		}

		rules = rules.Merge(fromFile)
	}

	return rules.Merge(c.InlineRules()), nil
}

// CheckVersion verifies the required-version constraint against info.
func (c *Config) CheckVersion(info version.Info) error {
	if c.RequiredVersion == "" {
		return nil
	}

	return info.Satisfies(c.RequiredVersion)
}
