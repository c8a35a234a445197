package chrome

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/matrix-org/complement/must"

	"github.com/localscorm/scormshim/internal/player"
	"github.com/localscorm/scormshim/internal/shim"
)

const framedCourse = `<!DOCTYPE html><html><head><title>player</title></head>
<body><iframe src="sco/index.html"></iframe></body></html>`

const sco = `<!DOCTYPE html><html><head><script>
window.scoSees = typeof window.parent.API;
</script></head><body>sco</body></html>`

// openCourse serves a framed course with the player and opens it in a local Chrome.
// It needs a real browser, so it only runs when SCORMSHIM_CHROME=exec.
func openCourse(t *testing.T) (*Tab, func() []ConsoleLine) {
	t.Helper()
	if os.Getenv("SCORMSHIM_CHROME") != "exec" {
		t.Skip("SCORMSHIM_CHROME=exec not set")
	}
	dir := t.TempDir()
	must.NotError(t, "mkdir", os.MkdirAll(filepath.Join(dir, "sco"), 0o755))
	must.NotError(t, "write launch", os.WriteFile(filepath.Join(dir, "index_lms.html"), []byte(framedCourse), 0o644))
	must.NotError(t, "write sco", os.WriteFile(filepath.Join(dir, "sco", "index.html"), []byte(sco), 0o644))

	p, err := player.New(dir, nil)
	must.NotError(t, "player.New", err)
	baseURL, closePlayer, err := player.Start(p, "127.0.0.1:0")
	must.NotError(t, "player.Start", err)
	t.Cleanup(closePlayer)

	browser, err := NewBrowser(BrowserOpts{UserDataDir: t.TempDir()})
	must.NotError(t, "NewBrowser", err)
	t.Cleanup(browser.Close)

	var mu sync.Mutex
	var lines []ConsoleLine
	tab, err := browser.NewTab(baseURL+"/", func(l ConsoleLine) {
		mu.Lock()
		lines = append(lines, l)
		mu.Unlock()
	})
	must.NotError(t, "NewTab", err)
	t.Cleanup(tab.Close)
	return tab, func() []ConsoleLine {
		mu.Lock()
		defer mu.Unlock()
		return append([]ConsoleLine(nil), lines...)
	}
}

func TestShimInChrome(t *testing.T) {
	tab, console := openCourse(t)
	MustRunAsyncFn[Void](t, tab.Ctx, `
		if (document.readyState !== "complete") {
			await new Promise((resolve) => window.addEventListener("load", resolve, { once: true }));
		}`)

	must.Equal(t, MustExecuteInto[string](t, tab.Ctx, `typeof window.API`), "object", "window.API")
	must.Equal(t, MustExecuteInto[string](t, tab.Ctx, `typeof window.API_1484_11`), "object", "window.API_1484_11")
	must.Equal(t, MustExecuteInto[string](t, tab.Ctx, `document.querySelector("iframe").contentWindow.scoSees`), "object", "frame found its own API")

	MustExecute(t, tab.Ctx, `window.API.LMSSetValue("cmi.core.lesson_status", "passed")`)
	must.Equal(t, MustExecuteInto[string](t, tab.Ctx, `window.API.LMSGetValue("cmi.core.lesson_status")`), "", "nothing stored")
	must.Equal(t, MustExecuteInto[string](t, tab.Ctx, `String(window.onbeforeunload)`), "null", "hook cleared")

	loaded := WaitFor(tab.Ctx, 5*time.Second, func() bool {
		n := 0
		for _, l := range console() {
			if l.Text == shim.LoadedMessage {
				n++
			}
		}
		return n == 2 // launch page and frame
	})
	must.Equal(t, loaded, true, "one confirmation line per document")
}

func TestProbeRTEInChrome(t *testing.T) {
	tab, _ := openCourse(t)
	MustRunAsyncFn[Void](t, tab.Ctx, `
		if (document.readyState !== "complete") {
			await new Promise((resolve) => window.addEventListener("load", resolve, { once: true }));
		}`)
	probe, err := ProbeRTE(tab.Ctx)
	must.NotError(t, "ProbeRTE", err)
	must.Equal(t, probe.Get("API.found").Bool(), true, "API found")
	must.Equal(t, probe.Get("API.results.LMSInitialize").String(), "true", "LMSInitialize")
	must.Equal(t, probe.Get("API_1484_11.results.GetLastError").String(), "0", "GetLastError")
	must.Equal(t, probe.Get("API_1484_11.types.GetValue").String(), "string", "GetValue type")
}
