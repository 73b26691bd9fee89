package scenario

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGolden_Transcripts runs every transcript under testdata/transcripts
// and compares its rendered snapshot against the matching golden file.
func TestGolden_Transcripts(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "transcripts", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			tr, err := Load(path)
			require.NoError(t, err)
			require.Equal(t, name, tr.Name, "transcript name must match its file name")
			require.NoError(t, RunGolden(t, tr))
		})
	}
}
