package commands

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload_ExplicitOutput(t *testing.T) {
	ts := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/skills/s1/download", r.URL.Path)
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="pdf.zip"`)
		_, _ = w.Write([]byte("PKdata"))
	})
	out := filepath.Join(t.TempDir(), "mine.zip")

	text := withStdoutCapture(t, func() {
		require.NoError(t, downloadCmd{}.Run(context.Background(), withTempConfig(t, ts.URL), []string{"s1", out}))
	})
	assert.Contains(t, text, "Saved "+out)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "PKdata", string(data))
}

func TestDownload_NameFromServerOrID(t *testing.T) {
	withName := true
	ts := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		if withName {
			w.Header().Set("Content-Disposition", `attachment; filename="../pdf.zip"`)
		}
		_, _ = w.Write([]byte("PK"))
	})
	cfg := withTempConfig(t, ts.URL)
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_ = withStdoutCapture(t, func() {
		require.NoError(t, downloadCmd{}.Run(context.Background(), cfg, []string{"s1"}))
	})
	_, err := os.Stat("pdf.zip")
	require.NoError(t, err)

	withName = false
	_ = withStdoutCapture(t, func() {
		require.NoError(t, downloadCmd{}.Run(context.Background(), cfg, []string{"s1"}))
	})
	_, err = os.Stat("s1.zip")
	require.NoError(t, err)
}

func TestDownload_ErrorLeavesNoFile(t *testing.T) {
	ts := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Skill not found"}`))
	})
	dir := t.TempDir()
	out := filepath.Join(dir, "x.zip")

	err := downloadCmd{}.Run(context.Background(), withTempConfig(t, ts.URL), []string{"nope", out})
	require.Error(t, err)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)

	assert.ErrorIs(t, downloadCmd{}.Run(context.Background(), withTempConfig(t, ts.URL), nil), ErrUsage)
}
