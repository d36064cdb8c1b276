// Package integration runs complete builds over corpora in test/testdata and
// compares the output with golden files.
package integration

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/content"
)

// setupCorpus copies a corpus directory into a temporary content root.
func setupCorpus(t *testing.T, corpusPath string) string {
	t.Helper()
	tmpDir := t.TempDir()
	require.NoError(t, copyDir(corpusPath, tmpDir), "failed to copy test corpus")
	return tmpDir
}

// copyDir recursively copies a directory tree.
func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		targetPath := filepath.Join(dst, relPath)
		if info.IsDir() {
			return os.MkdirAll(targetPath, 0o750)
		}
		return copyFile(path, targetPath)
	})
}

// copyFile copies a single file.
func copyFile(src, dst string) error {
	// #nosec G304 -- test utility with paths from test setup, not user input
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	// #nosec G304 -- test utility with paths from test setup, not user input
	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = dstFile.Close() }()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// loadGoldenConfig loads a test configuration and points it at root and a
// temporary output directory.
func loadGoldenConfig(t *testing.T, configPath, root string) *config.Config {
	t.Helper()
	t.Setenv(config.DevEnvVar, "")

	cfg, err := config.Load(configPath)
	require.NoError(t, err, "failed to load test config")
	cfg.Content.Root = root
	cfg.Output.Directory = filepath.Join(t.TempDir(), "out")
	return cfg
}

// normalizeContent trims markdown bodies so golden files do not depend on
// trailing whitespace in the corpus.
func normalizeContent(v any) {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			if s, ok := item.(string); ok && k == content.MarkdownContentKey {
				t[k] = strings.TrimSpace(s)
				continue
			}
			normalizeContent(item)
		}
	case []any:
		for _, item := range t {
			normalizeContent(item)
		}
	}
}

// verifyContent compares the written content file against a golden file.
func verifyContent(t *testing.T, outputPath, goldenPath string, updateGolden bool) {
	t.Helper()

	// #nosec G304 -- test utility reading from test output directory
	data, err := os.ReadFile(outputPath)
	require.NoError(t, err, "failed to read content output")

	var actual any
	require.NoError(t, json.Unmarshal(data, &actual), "failed to parse content output")
	normalizeContent(actual)

	actualJSON, err := json.MarshalIndent(actual, "", "  ")
	require.NoError(t, err)

	if updateGolden {
		require.NoError(t, os.MkdirAll(filepath.Dir(goldenPath), 0o750), "failed to create golden directory")
		require.NoError(t, os.WriteFile(goldenPath, actualJSON, 0o600), "failed to write golden file")
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	// #nosec G304 -- test utility reading golden file from testdata
	goldenData, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "failed to read golden file: %s", goldenPath)
	require.JSONEq(t, string(goldenData), string(actualJSON), "content output mismatch")
}
