package integration

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/build"
	"git.home.luguber.info/inful/sitegraph/internal/manifest"
	"git.home.luguber.info/inful/sitegraph/internal/pipeline"
)

var updateGolden = flag.Bool("update-golden", false, "Update golden files")

// TestGolden_Landing builds a small site with annotations enabled.
// This test verifies:
// - data records and pages are enumerated in walk order
// - singular and list references resolve, dangling ones are dropped or null
// - embedded typed records get field path marks, untyped ones are walked
// - the site configuration record is exposed as props.site.
func TestGolden_Landing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping golden test in short mode")
	}

	root := setupCorpus(t, "../testdata/corpus/landing")
	cfg := loadGoldenConfig(t, "../testdata/configs/landing.yaml", root)

	res, err := build.NewService().Run(context.Background(), build.Request{Config: cfg, WriteOutput: true})
	require.NoError(t, err)
	assert.Equal(t, build.StatusSuccess, res.Status)
	assert.Equal(t, pipeline.OutcomeSuccess, res.Report.Outcome)
	assert.Equal(t, 2, res.Report.Resolved)
	assert.Equal(t, 2, res.Report.Unresolved)

	verifyContent(t, res.OutputPath, "../testdata/golden/landing/content.json", *updateGolden)

	// #nosec G304 -- test utility reading from test output directory
	data, err := os.ReadFile(filepath.Join(cfg.Output.Directory, build.ManifestFile))
	require.NoError(t, err)
	m, err := manifest.FromJSON(data)
	require.NoError(t, err)
	assert.Len(t, m.Records, 4)
	assert.Equal(t, 2, m.Outputs.Pages)
	assert.Equal(t, 4, m.Inputs.Files)
	assert.NotEmpty(t, m.Outputs.ContentHash)
}

// TestGolden_Deterministic checks that two builds of the same corpus produce
// byte-identical content and matching record fingerprints.
func TestGolden_Deterministic(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping golden test in short mode")
	}

	root := setupCorpus(t, "../testdata/corpus/landing")
	svc := build.NewService()

	var outputs [][]byte
	var hashes []string
	for range 2 {
		cfg := loadGoldenConfig(t, "../testdata/configs/landing.yaml", root)
		res, err := svc.Run(context.Background(), build.Request{Config: cfg, WriteOutput: true})
		require.NoError(t, err)

		// #nosec G304 -- test utility reading from test output directory
		data, err := os.ReadFile(res.OutputPath)
		require.NoError(t, err)
		outputs = append(outputs, data)

		hash, err := res.Manifest.Hash()
		require.NoError(t, err)
		hashes = append(hashes, hash)
	}

	assert.Equal(t, string(outputs[0]), string(outputs[1]))
	assert.Equal(t, hashes[0], hashes[1])
}
