package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Chrome modes.
const (
	ChromeExec      = "exec"
	ChromeContainer = "container"
)

// The config for the scormshim tools. This is configured using environment variables, optionally
// preloaded from a .env file. The comments in this struct are structured so they can be
// automatically parsed via gendoc. Command line flags override these values.
type Scormshim struct {
	// Name: SCORMSHIM_CONTENT_DIR
	// Default: .
	// Description: The directory holding the unpacked SCORM content to play. The launch file is
	// the shallowest of index_lms.html, index.html, story.html, launch.html or player.html.
	ContentDir string `env:"SCORMSHIM_CONTENT_DIR" envDefault:"."`

	// Name: SCORMSHIM_LISTEN_ADDR
	// Default: 127.0.0.1:0
	// Description: The address the local player listens on. Port 0 picks a random free port.
	// When SCORMSHIM_CHROME=container a loopback host is widened to 0.0.0.0 so the container
	// can reach the player.
	ListenAddr string `env:"SCORMSHIM_LISTEN_ADDR" envDefault:"127.0.0.1:0"`

	// Name: SCORMSHIM_CHROME
	// Default: exec
	// Description: How `verify` gets a browser.
	// ```
	// Valid values are:
	//  - `exec`: Run a local headless Chrome found on the PATH.
	//  - `container`: Start SCORMSHIM_HEADLESS_IMAGE with Docker and connect to it remotely.
	// ```
	// Browser tests only run when this is set explicitly.
	Chrome string `env:"SCORMSHIM_CHROME" envDefault:"exec"`

	// Name: SCORMSHIM_HEADLESS_IMAGE
	// Default: chromedp/headless-shell:latest
	// Description: The Docker image used when SCORMSHIM_CHROME=container.
	HeadlessImage string `env:"SCORMSHIM_HEADLESS_IMAGE" envDefault:"chromedp/headless-shell:latest"`

	// Name: SCORMSHIM_LOG_LEVEL
	// Default: info
	// Description: One of debug, info, warn, error.
	LogLevel string `env:"SCORMSHIM_LOG_LEVEL" envDefault:"info"`

	// Name: SCORMSHIM_VERIFY_TIMEOUT
	// Default: 60s
	// Description: The upper bound for `verify`, including browser start up.
	VerifyTimeout time.Duration `env:"SCORMSHIM_VERIFY_TIMEOUT" envDefault:"60s"`
}

// NewScormshimConfigFromEnvVars loads envFile (when it exists) without overriding variables
// already set, then parses the environment.
func NewScormshimConfigFromEnvVars(envFile string) (*Scormshim, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, errors.Wrapf(err, "loading %s", envFile)
			}
		}
	}
	cfg := &Scormshim{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parsing environment")
	}
	return cfg, cfg.Validate()
}

// Validate checks the enumerated settings.
func (c *Scormshim) Validate() error {
	switch c.Chrome {
	case ChromeExec, ChromeContainer:
	default:
		return errors.Errorf("SCORMSHIM_CHROME: unknown mode %q", c.Chrome)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "SCORMSHIM_LOG_LEVEL")
	}
	if c.VerifyTimeout <= 0 {
		return errors.Errorf("SCORMSHIM_VERIFY_TIMEOUT must be positive, got %s", c.VerifyTimeout)
	}
	return nil
}

// Level returns the parsed log level. Call Validate first.
func (c *Scormshim) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
