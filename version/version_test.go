package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"release", Info{Version: "v1.2.0", Commit: "abcdef0123"}, "locofilter v1.2.0 (abcdef0)"},
		{"modified tree", Info{Version: "dev", Commit: "abcdef0123", Modified: true}, "locofilter dev (abcdef0, modified)"},
		{"no commit", Info{Version: "dev"}, "locofilter dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

func TestInfoShort(t *testing.T) {
	assert.Equal(t, "abcdef0", Info{Commit: "abcdef0123"}.Short())
	assert.Equal(t, "abc", Info{Commit: "abc"}.Short())
	assert.Empty(t, Info{}.Short())
}

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/teranos/locofilter", Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	info := fromBuildInfo(Info{Version: "dev"}, bi)
	assert.Equal(t, "v0.3.1", info.Version)
	assert.Equal(t, "0123456789abcdef", info.Commit)
	assert.True(t, info.Modified)

	// ldflags win over the embedded stamps
	info = fromBuildInfo(Info{Version: "v1.0.0", Commit: "feedface"}, bi)
	assert.Equal(t, "v1.0.0", info.Version)
	assert.Equal(t, "feedface", info.Commit)

	// a plain go build in the source tree reports (devel)
	bi.Main.Version = "(devel)"
	assert.Equal(t, "dev", fromBuildInfo(Info{Version: "dev"}, bi).Version)
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Go)
	assert.Contains(t, info.Platform, "/")
}
