package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matrix-org/complement/must"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"SCORMSHIM_CONTENT_DIR", "SCORMSHIM_LISTEN_ADDR", "SCORMSHIM_CHROME", "SCORMSHIM_HEADLESS_IMAGE", "SCORMSHIM_LOG_LEVEL", "SCORMSHIM_VERIFY_TIMEOUT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg, err := NewScormshimConfigFromEnvVars("")
	must.NotError(t, "defaults", err)
	must.Equal(t, cfg.ContentDir, ".", "content dir")
	must.Equal(t, cfg.ListenAddr, "127.0.0.1:0", "listen addr")
	must.Equal(t, cfg.Chrome, ChromeExec, "chrome mode")
	must.Equal(t, cfg.HeadlessImage, "chromedp/headless-shell:latest", "image")
	must.Equal(t, cfg.Level(), log.InfoLevel, "log level")
	must.Equal(t, cfg.VerifyTimeout, 60*time.Second, "timeout")
}

func TestEnvFileDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	must.NotError(t, "write env file", os.WriteFile(envFile, []byte("SCORMSHIM_CONTENT_DIR=/from/file\nSCORMSHIM_LOG_LEVEL=debug\n"), 0o644))
	t.Setenv("SCORMSHIM_LOG_LEVEL", "warn")
	t.Setenv("SCORMSHIM_CONTENT_DIR", "")
	os.Unsetenv("SCORMSHIM_CONTENT_DIR")

	cfg, err := NewScormshimConfigFromEnvVars(envFile)
	must.NotError(t, "load", err)
	must.Equal(t, cfg.ContentDir, "/from/file", "content dir from file")
	must.Equal(t, cfg.Level(), log.WarnLevel, "env var wins over file")
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Scormshim
		wantErr bool
	}{
		{"ok", Scormshim{Chrome: ChromeContainer, LogLevel: "debug", VerifyTimeout: time.Second}, false},
		{"bad chrome", Scormshim{Chrome: "firefox", LogLevel: "info", VerifyTimeout: time.Second}, true},
		{"bad level", Scormshim{Chrome: ChromeExec, LogLevel: "loud", VerifyTimeout: time.Second}, true},
		{"bad timeout", Scormshim{Chrome: ChromeExec, LogLevel: "info"}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			must.Equal(t, err != nil, tc.wantErr, "Validate error")
		})
	}
}
