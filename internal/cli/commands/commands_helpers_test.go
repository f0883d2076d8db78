package commands

import (
	"SkillHub/internal/config"
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

// withTempConfig — конфиг клиента, у которого файл токена лежит во временном каталоге.
func withTempConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{ServerURL: serverURL, TokenFile: filepath.Join(dir, "skillhub", "session_token")}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

func newAPIServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}
