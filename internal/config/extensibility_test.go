package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/semconvert/internal/filter"
	"github.com/hupe1980/semconvert/internal/rdf"
	"github.com/hupe1980/semconvert/internal/version"
)

func TestInlineRules(t *testing.T) {
	cfg := &Config{
		DenySubjLike:   []string{"ds"},
		PassSubjLike:   []string{"ps"},
		DenyPredLike:   []string{"dp"},
		PassPredLike:   []string{"pp"},
		DenyObjLike:    []string{"do"},
		PassObjLike:    []string{"po"},
		DenyEntityLike: []string{"de"},
		PassEntityLike: []string{"pe"},
	}

	assert.Equal(t, filter.Rules{
		DenySubject:   []string{"ds"},
		PassSubject:   []string{"ps"},
		DenyPredicate: []string{"dp"},
		PassPredicate: []string{"pp"},
		DenyObject:    []string{"do"},
		PassObject:    []string{"po"},
		DenyEntity:    []string{"de"},
		PassEntity:    []string{"pe"},
	}, cfg.InlineRules())
}

func TestCustomProfiles_NoConfigFile(t *testing.T) {
	profiles, err := Default().CustomProfiles()
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestCustomProfiles_FromConfigFile(t *testing.T) {
	p := writeTempConfig(t, `log-level: warn
profiles:
  people:
    description: people only
    passSubjLike: ["person"]
`)

	cfg := &Config{ConfigFile: p}

	profiles, err := cfg.CustomProfiles()
	require.NoError(t, err)
	require.Contains(t, profiles, "people")
	assert.Equal(t, "people only", profiles["people"].Description)
	assert.Equal(t, []string{"person"}, profiles["people"].PassSubject)
}

func TestCustomProfiles_MissingFile(t *testing.T) {
	cfg := &Config{ConfigFile: filepath.Join(t.TempDir(), "gone.yaml")}

	_, err := cfg.CustomProfiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestFilterRules_Empty(t *testing.T) {
	rules, err := Default().FilterRules()
	require.NoError(t, err)
	assert.True(t, rules.IsEmpty())
}

func TestFilterRules_MergesSources(t *testing.T) {
	dir := t.TempDir()

	rulesFile := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rulesFile, []byte("denyPredLike: [fromfile]\n"), 0o600))

	cfgFile := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`profiles:
  strict:
    extends: no-types
    denyObjLike: [secret]
`), 0o600))

	cfg := &Config{
		ConfigFile:   cfgFile,
		Profile:      "strict",
		RulesFile:    rulesFile,
		DenyPredLike: []string{"inline"},
	}

	rules, err := cfg.FilterRules()
	require.NoError(t, err)
	assert.Equal(t, []string{
		`^http://www\.w3\.org/1999/02/22-rdf-syntax-ns#type$`,
		"fromfile",
		"inline",
	}, rules.DenyPredicate)
	assert.Equal(t, []string{"secret"}, rules.DenyObject)
}

func TestFilterRules_BuiltinProfile(t *testing.T) {
	cfg := &Config{Profile: "labels-only"}

	rules, err := cfg.FilterRules()
	require.NoError(t, err)
	assert.NotEmpty(t, rules.PassPredicate)
}

func TestFilterRules_InlinePassWidensProfile(t *testing.T) {
	cfg := &Config{
		Profile:      "labels-only",
		PassPredLike: []string{`#age$`},
		DenyObjLike:  []string{`^secret$`},
	}

	rules, err := cfg.FilterRules()
	require.NoError(t, err)

	rs, err := filter.Compile(rules)
	require.NoError(t, err)

	subject := rdf.NamedNode("http://example.org/alice")

	tests := []struct {
		name string
		quad rdf.Quad
		want bool
	}{
		{"profile pattern", rdf.NewTriple(subject, rdf.NamedNode("http://example.org/name"), rdf.Literal("Alice")), true},
		{"inline pattern", rdf.NewTriple(subject, rdf.NamedNode("http://example.org/#age"), rdf.Literal("30")), true},
		{"neither", rdf.NewTriple(subject, rdf.NamedNode("http://example.org/knows"), rdf.Literal("Bob")), false},
		{"denied object", rdf.NewTriple(subject, rdf.NamedNode("http://example.org/name"), rdf.Literal("secret")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rs.Permit(tt.quad))
		})
	}
}

func TestFilterRules_UnknownProfile(t *testing.T) {
	cfg := &Config{Profile: "nope"}

	_, err := cfg.FilterRules()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown profile "nope"`)
}

func TestFilterRules_BadRulesFile(t *testing.T) {
	p := writeTempConfig(t, "denyEverything: [x]\n")
	cfg := &Config{RulesFile: p}

	_, err := cfg.FilterRules()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing rules")
}

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, Default().CheckVersion(version.Info{Version: "1.0.0"}))

	cfg := &Config{RequiredVersion: ">= 2"}
	assert.Error(t, cfg.CheckVersion(version.Info{Version: "1.0.0"}))
	assert.NoError(t, cfg.CheckVersion(version.Info{Version: "2.1.0"}))
	assert.NoError(t, cfg.CheckVersion(version.Info{Version: "dev"}))
}
