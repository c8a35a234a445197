// package chrome drives a headless Chrome to check SCORM pages served by the player.
//
// A Browser is either a local Chrome started by chromedp, or a remote one (for example
// a chromedp/headless-shell container) reached over its DevTools URL.
package chrome

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

type BrowserOpts struct {
	// DevTools URL of an already running Chrome, e.g. http://127.0.0.1:9222. When empty a
	// local Chrome is started.
	RemoteURL string
	// Profile directory for a local Chrome. Defaults to ./chromedp.
	UserDataDir string
}

type Browser struct {
	Ctx         context.Context // topmost chromedp context
	ctxCancel   func()
	allocCancel func()
}

// Create and run a new Chrome browser, or connect to a remote one.
func NewBrowser(opts BrowserOpts) (*Browser, error) {
	ansiRedForeground := "\x1b[31m"
	ansiResetForeground := "\x1b[39m"

	colorifyError := func(format string, args ...any) {
		format = ansiRedForeground + time.Now().Format(time.RFC3339) + " " + format + ansiResetForeground
		fmt.Printf(format, args...)
	}

	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if opts.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), opts.RemoteURL)
	} else {
		userDir := opts.UserDataDir
		if userDir == "" {
			os.Mkdir("chromedp", os.ModePerm) // ignore errors to allow repeated runs
			wd, _ := os.Getwd()
			userDir = filepath.Join(wd, "chromedp")
		}
		execOpts := chromedp.DefaultExecAllocatorOptions[:]
		execOpts = append(execOpts,
			chromedp.UserDataDir(userDir),
			// increase the WS timeout from 20s (default) as CI machines can be slow to start Chrome
			chromedp.WSURLReadTimeout(30*time.Second),
		)
		if os.Geteuid() == 0 {
			execOpts = append(execOpts, chromedp.NoSandbox)
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), execOpts...)
	}

	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithBrowserOption(
		chromedp.WithBrowserLogf(colorifyError), chromedp.WithBrowserErrorf(colorifyError),
	))
	browser := &Browser{
		Ctx:         ctx,
		ctxCancel:   cancel,
		allocCancel: allocCancel,
	}
	if err := chromedp.Run(ctx); err != nil {
		browser.Close()
		return nil, errors.Wrap(err, "starting browser")
	}
	return browser, nil
}

func (b *Browser) Close() {
	b.ctxCancel()
	b.allocCancel()
}

// ConsoleLine is one console API call made by a page.
type ConsoleLine struct {
	Type string // log, warning, error, ...
	Text string
}

// NewTab opens url in a new tab. Console listening starts before navigation so lines
// written while the page loads are not lost.
func (b *Browser) NewTab(url string, onConsole func(line ConsoleLine)) (*Tab, error) {
	tabCtx, closeTab := chromedp.NewContext(b.Ctx)

	// Listen for console logs for debugging, and to check the shim's console contract
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			parts := make([]string, 0, len(ev.Args))
			for _, arg := range ev.Args {
				s, err := strconv.Unquote(string(arg.Value))
				if err != nil {
					s = string(arg.Value)
				}
				parts = append(parts, s)
			}
			onConsole(ConsoleLine{Type: string(ev.Type), Text: strings.Join(parts, " ")})
		}
	})

	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
	)
	if err != nil {
		closeTab()
		return nil, fmt.Errorf("NewTab: failed to navigate to %s: %s", url, err)
	}

	return &Tab{
		URL:     url,
		Ctx:     tabCtx,
		browser: b,
		cancel:  closeTab,
	}, nil
}
