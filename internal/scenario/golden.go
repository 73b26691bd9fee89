package scenario

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunGolden executes a transcript and compares the rendered snapshot
// against a golden file named after the transcript, stored under
// testdata/golden/.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
//
// Returns an error if the run itself fails; snapshot mismatches fail the
// test through goldie.
func RunGolden(t *testing.T, tr *Transcript) error {
	t.Helper()

	result, err := Run(tr)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, tr.Name, []byte(result.Render()))
	return nil
}
