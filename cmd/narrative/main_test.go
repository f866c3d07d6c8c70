package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var flowFile = filepath.Join("..", "..", "pkg", "schemefile", "testdata", "flow.yaml")

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "narrative version")
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", flowFile)
	require.NoError(t, err)
	assert.Contains(t, out, "flow.yaml")

	_, err = run(t, "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1")
}

func TestExport_JSON(t *testing.T) {
	out, err := run(t, "export", flowFile, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Flow"`)
	assert.Contains(t, out, `"transformToTarget:note.md->note.json"`)
}

func TestDescribe_Mermaid(t *testing.T) {
	out, err := run(t, "describe", flowFile, "--mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
}
