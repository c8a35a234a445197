// Package verify plays a content directory in headless Chrome and checks that the
// mock RTE is discoverable and answers every call the way the Go tables do.
package verify

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/localscorm/scormshim/internal/chrome"
	"github.com/localscorm/scormshim/internal/config"
	"github.com/localscorm/scormshim/internal/deploy"
	"github.com/localscorm/scormshim/internal/player"
	"github.com/localscorm/scormshim/internal/rte"
	"github.com/localscorm/scormshim/internal/shim"
)

// The arguments the probe passes to every method.
var probeArgs = []any{"cmi.core.lesson_status", "completed"}

// Mismatch is one method whose in-page result differs from the table.
type Mismatch struct {
	Global string
	Method string
	Want   string
	Got    string
	Type   string // typeof the in-page result
}

// Report is the outcome of a verify run.
type Report struct {
	URL     string
	Launch  string
	Found   map[string]bool
	Checked int
	// Mismatches lists every method whose result was not the fixed string.
	Mismatches []Mismatch
	// LoadedLines counts console lines equal to shim.LoadedMessage. Framed content
	// loads the shim once per document.
	LoadedLines int
	// Warnings holds console warnings starting with shim.SuppressWarningPrefix.
	Warnings []string
	Console  []chrome.ConsoleLine
}

// OK is true when both globals were found, every result matched and the shim
// announced itself.
func (r *Report) OK() bool {
	for _, v := range rte.Versions() {
		if !r.Found[v.GlobalName()] {
			return false
		}
	}
	return len(r.Mismatches) == 0 && r.LoadedLines > 0
}

// JSON renders the report for the CLI.
func (r *Report) JSON() (string, error) {
	doc := `{}`
	var err error
	set := func(path string, v any) {
		if err != nil {
			return
		}
		doc, err = sjson.Set(doc, path, v)
	}
	set("ok", r.OK())
	set("url", r.URL)
	set("launch", r.Launch)
	set("checked", r.Checked)
	set("loaded_lines", r.LoadedLines)
	set("warnings", []any{})
	for i, w := range r.Warnings {
		set("warnings."+strconv.Itoa(i), w)
	}
	for _, v := range rte.Versions() {
		set("found."+v.GlobalName(), r.Found[v.GlobalName()])
	}
	set("mismatches", []any{})
	for i, m := range r.Mismatches {
		set("mismatches."+strconv.Itoa(i), map[string]string{
			"global": m.Global,
			"method": m.Method,
			"want":   m.Want,
			"got":    m.Got,
			"type":   m.Type,
		})
	}
	set("console", []any{})
	for i, l := range r.Console {
		set("console."+strconv.Itoa(i), map[string]string{"type": l.Type, "text": l.Text})
	}
	if err != nil {
		return "", errors.Wrap(err, "rendering report")
	}
	return doc, nil
}

// Compare checks a probe document (as returned by chrome.ProbeRTE) against the tables.
func Compare(probe gjson.Result, r *Report) {
	if r.Found == nil {
		r.Found = map[string]bool{}
	}
	for _, v := range rte.Versions() {
		global := v.GlobalName()
		entry := probe.Get(global)
		found := entry.Get("found").Bool()
		r.Found[global] = found
		if !found {
			continue
		}
		table := rte.TableFor(v)
		for _, m := range table.Methods() {
			want, _ := table.Call(m, probeArgs...)
			got := entry.Get("results." + string(m))
			typ := entry.Get("types." + string(m)).String()
			r.Checked++
			if !got.Exists() || got.String() != want || typ != "string" {
				r.Mismatches = append(r.Mismatches, Mismatch{
					Global: global,
					Method: string(m),
					Want:   want,
					Got:    got.String(),
					Type:   typ,
				})
			}
		}
	}
}

// CountConsole fills the console derived fields of r from lines.
func CountConsole(lines []chrome.ConsoleLine, r *Report) {
	r.Console = lines
	for _, l := range lines {
		switch {
		case l.Text == shim.LoadedMessage:
			r.LoadedLines++
		case strings.HasPrefix(l.Text, shim.SuppressWarningPrefix):
			r.Warnings = append(r.Warnings, l.Text)
		}
	}
}

// Run serves cfg.ContentDir, opens it in Chrome and probes the RTE. An error means the
// check could not be carried out; a failed check is a Report with OK() false.
func Run(ctx context.Context, cfg *config.Scormshim, logger *log.Logger) (*Report, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.VerifyTimeout)
	defer cancel()

	p, err := player.New(cfg.ContentDir, logger)
	if err != nil {
		return nil, err
	}
	if p.Launch() == "" {
		return nil, errors.Errorf("no launch file in %s", p.Root())
	}
	addr, err := listenAddr(cfg)
	if err != nil {
		return nil, err
	}
	baseURL, closePlayer, err := player.Start(p, addr)
	if err != nil {
		return nil, err
	}
	defer closePlayer()

	opts := chrome.BrowserOpts{}
	pageURL := baseURL + "/"
	if cfg.Chrome == config.ChromeContainer {
		shell, err := deploy.RunHeadlessShell(ctx, cfg.HeadlessImage, logger)
		if err != nil {
			return nil, err
		}
		defer shell.Teardown()
		opts.RemoteURL = shell.DevToolsURL
		pageURL, err = containerURL(baseURL)
		if err != nil {
			return nil, err
		}
		pageURL += "/"
	}

	browser, err := chrome.NewBrowser(opts)
	if err != nil {
		return nil, err
	}
	defer browser.Close()
	stop := context.AfterFunc(ctx, browser.Close)
	defer stop()

	var mu sync.Mutex
	var lines []chrome.ConsoleLine
	snapshot := func() []chrome.ConsoleLine {
		mu.Lock()
		defer mu.Unlock()
		return append([]chrome.ConsoleLine(nil), lines...)
	}
	logger.Info("opening launch page", "url", pageURL)
	tab, err := browser.NewTab(pageURL, func(line chrome.ConsoleLine) {
		logger.Debug(line.Text, "source", "console", "type", line.Type)
		mu.Lock()
		lines = append(lines, line)
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	defer tab.Close()

	loaded := chrome.WaitFor(ctx, cfg.VerifyTimeout, func() bool {
		for _, l := range snapshot() {
			if l.Text == shim.LoadedMessage {
				return true
			}
		}
		return false
	})
	if !loaded {
		logger.Warn("no confirmation line seen on the console", "want", shim.LoadedMessage)
	}

	probeCtx, cancelProbe := context.WithCancel(tab.Ctx)
	defer cancelProbe()
	stopProbe := context.AfterFunc(ctx, cancelProbe)
	defer stopProbe()
	// frames discovered by the probe only exist once the launch page has loaded
	state, err := chrome.RunAsyncFn[string](probeCtx, loadedJS)
	if err != nil {
		return nil, errors.Wrap(err, "waiting for the launch page to load")
	}
	logger.Debug("launch page loaded", "readyState", *state)
	probe, err := chrome.ProbeRTE(probeCtx)
	if err != nil {
		return nil, err
	}

	report := &Report{URL: pageURL, Launch: p.Launch()}
	Compare(probe, report)
	CountConsole(snapshot(), report)
	logger.Info("verify finished", "ok", report.OK(), "checked", report.Checked, "mismatches", len(report.Mismatches))
	return report, nil
}

const loadedJS = `
	if (document.readyState !== "complete") {
		await new Promise((resolve) => window.addEventListener("load", resolve, { once: true }));
	}
	return document.readyState;`

// listenAddr is the address the player listens on. A containerised Chrome reaches the
// host through HostAlias, which a loopback-only listener does not answer, so loopback
// hosts are widened to all interfaces in container mode.
func listenAddr(cfg *config.Scormshim) (string, error) {
	if cfg.Chrome != config.ChromeContainer {
		return cfg.ListenAddr, nil
	}
	host, port, err := net.SplitHostPort(cfg.ListenAddr)
	if err != nil {
		return "", errors.Wrap(err, "SCORMSHIM_LISTEN_ADDR")
	}
	ip := net.ParseIP(host)
	if host == "localhost" || (ip != nil && ip.IsLoopback()) {
		return net.JoinHostPort("0.0.0.0", port), nil
	}
	return cfg.ListenAddr, nil
}

// containerURL rewrites baseURL so a browser inside a container reaches the player
// running on the host.
func containerURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing player url")
	}
	_, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		return "", errors.Wrap(err, "parsing player url")
	}
	u.Host = net.JoinHostPort(deploy.HostAlias, port)
	return u.String(), nil
}
