package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bs.csv")
	require.NoError(t, os.WriteFile(file, []byte(
		"Item,Prior,Current\nTOTAL ASSETS,1000,1200\nCURRENT ASSETS,400,600\nCURRENT LIABILITIES,200,300\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", filepath.Join(dir, "missing.yaml"), file})
	require.NoError(t, rootCmd.Execute())

	text := out.String()
	assert.Contains(t, text, "Growth (%)")
	assert.Contains(t, text, "1,200")
	assert.Contains(t, text, "20.00%")
	assert.Contains(t, text, "Current ratio: prior 2.00, current 2.00 (change 0.00)")
}

func TestAnalyzeCommand_MissingTotalAssets(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bs.csv")
	require.NoError(t, os.WriteFile(file, []byte("Item,Prior,Current\nCASH,1,2\n"), 0o644))

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--config", filepath.Join(dir, "missing.yaml"), file})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total_assets")
}
