package version

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.NotEmpty(t, info.Version)
	assert.LessOrEqual(t, len(info.GitCommit), 7)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfoString(t *testing.T) {
	info := GetInfo()
	s := info.String()

	assert.Contains(t, s, "semconvert")
	assert.Contains(t, s, info.Version)
	assert.Contains(t, s, info.GoVersion)
	assert.Contains(t, s, info.Platform)
}

func TestInfoJSON(t *testing.T) {
	info := GetInfo()

	jsonStr, err := info.JSON()
	require.NoError(t, err)

	var parsed Info
	require.NoError(t, json.Unmarshal([]byte(jsonStr), &parsed))

	assert.Equal(t, info.Version, parsed.Version)
	assert.Equal(t, info.GitCommit, parsed.GitCommit)
	assert.Equal(t, info.BuildDate, parsed.BuildDate)
	assert.Equal(t, info.GoVersion, parsed.GoVersion)
	assert.Equal(t, info.Platform, parsed.Platform)
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"long SHA truncated", "abc1234def5678", "abc1234"},
		{"exact 7 unchanged", "abc1234", "abc1234"},
		{"short unchanged", "abc", "abc"},
		{"empty unchanged", "", ""},
		{"none unchanged", "none", "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shortCommit(tt.input))
		})
	}
}

func TestSatisfies(t *testing.T) {
	release := Info{Version: "1.4.2"}

	tests := []struct {
		name       string
		info       Info
		constraint string
		wantErr    string
	}{
		{"release in range", release, ">= 1.2, < 2", ""},
		{"release exact", release, "1.4.2", ""},
		{"release with v prefix", Info{Version: "v1.4.2"}, "~1.4", ""},
		{"release too old", release, ">= 2.0.0", "does not satisfy"},
		{"dev skips check", Info{Version: "dev"}, ">= 99", ""},
		{"invalid constraint", release, "not a constraint", "invalid version constraint"},
		{"invalid constraint on dev", Info{Version: "dev"}, "not a constraint", "invalid version constraint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.info.Satisfies(tt.constraint)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	assert.True(t, Info{Version: "dev"}.IsDevelopment())
	assert.False(t, Info{Version: "0.3.0"}.IsDevelopment())
}

func TestFromBuildInfo(t *testing.T) {
	defaults := Info{Version: "dev", GitCommit: "none", BuildDate: "unknown"}
	stamped := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "GOOS", Value: "linux"},
		},
	}

	t.Run("fills defaults", func(t *testing.T) {
		got := fromBuildInfo(defaults, stamped)
		assert.Equal(t, Info{Version: "v0.4.1", GitCommit: "0123456789abcdef", BuildDate: "2026-01-02T03:04:05Z"}, got)
	})

	t.Run("ldflags win", func(t *testing.T) {
		release := Info{Version: "1.0.0", GitCommit: "feedbee", BuildDate: "2026-02-01"}
		assert.Equal(t, release, fromBuildInfo(release, stamped))
	})

	t.Run("devel module version ignored", func(t *testing.T) {
		got := fromBuildInfo(defaults, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		assert.Equal(t, defaults, got)
	})
}
