package compileinfo

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildInfo(t *testing.T) {
	info := fromBuildInfo(&debug.BuildInfo{
		GoVersion: "go1.18",
		Path:      "github.com/carbocation/structmap/cmd/structannotate",
		Main:      debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2022-06-01T00:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	assert.Equal(t, "abc123", info.Commit)
	assert.True(t, info.Modified)
	assert.Contains(t, info.String(), "structannotate ((devel))")
	assert.Contains(t, info.String(), "modified after that commit")

	assert.Equal(t, "Build information is not available for this binary.", CompileInfo{}.String())
}
