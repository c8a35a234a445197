// Package player hosts unpacked SCORM content over HTTP for local playback, with the
// mock RTE loaded into every HTML page ahead of the content's own scripts.
package player

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/felixge/httpsnoop"
	"github.com/pkg/errors"
	"github.com/tidwall/sjson"

	"github.com/localscorm/scormshim/internal/shimjs"
)

// Paths served by the player itself. Everything else comes from the content directory.
const (
	ShimPath   = "/__rte/api.js"
	LaunchPath = "/__rte/launch"
)

// Player serves one content directory.
type Player struct {
	root   string
	launch string
	logger *log.Logger
	mux    *http.ServeMux
}

// New prepares a player for contentDir. A directory without a launch file can still
// be served; only GET / then answers 404.
func New(contentDir string, logger *log.Logger) (*Player, error) {
	root, err := filepath.Abs(contentDir)
	if err != nil {
		return nil, errors.Wrap(err, "resolving content dir")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, "content dir")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("content dir %s is not a directory", root)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	launch, err := FindLaunchFile(root)
	switch {
	case errors.Is(err, ErrNoLaunchFile):
		logger.Warn("no launch file found", "dir", root, "candidates", strings.Join(LaunchCandidates, ","))
	case err != nil:
		return nil, err
	default:
		logger.Info("launch file", "path", launch)
	}
	p := &Player{
		root:   root,
		launch: launch,
		logger: logger,
		mux:    &http.ServeMux{},
	}
	p.mux.HandleFunc(ShimPath, p.serveShim)
	p.mux.HandleFunc(LaunchPath, p.serveLaunchInfo)
	p.mux.HandleFunc("/", p.serveContent)
	return p, nil
}

// Launch is the launch file path relative to the content root, or "" if none was found.
func (p *Player) Launch() string {
	return p.launch
}

// Root is the absolute content directory.
func (p *Player) Root() string {
	return p.root
}

func (p *Player) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m := httpsnoop.CaptureMetrics(p.mux, w, req)
	p.logger.Debug("request", "method", req.Method, "path", req.URL.Path, "status", m.Code, "bytes", m.Written, "took", m.Duration)
}

func (p *Player) serveShim(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", shimjs.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, req, "api.js", time.Time{}, bytes.NewReader(shimjs.Render()))
}

func (p *Player) serveLaunchInfo(w http.ResponseWriter, req *http.Request) {
	body, err := sjson.Set(`{}`, "launch", p.launch)
	if err == nil {
		body, err = sjson.Set(body, "content_dir", p.root)
	}
	if err == nil {
		body, err = sjson.Set(body, "shim", ShimPath)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}

func (p *Player) serveContent(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := path.Clean("/" + req.URL.Path)
	if name == "/" {
		if p.launch == "" {
			http.Error(w, ErrNoLaunchFile.Error(), http.StatusNotFound)
			return
		}
		http.Redirect(w, req, (&url.URL{Path: "/" + p.launch}).String(), http.StatusFound)
		return
	}

	dir := http.Dir(p.root)
	f, err := dir.Open(name)
	if err != nil {
		serveError(w, err)
		return
	}
	info, err := f.Stat()
	f.Close()
	if err != nil {
		serveError(w, err)
		return
	}
	if info.IsDir() {
		if !strings.HasSuffix(req.URL.Path, "/") {
			http.Redirect(w, req, path.Base(name)+"/", http.StatusMovedPermanently)
			return
		}
		index := path.Join(name, "index.html")
		if _, err := os.Stat(filepath.Join(p.root, filepath.FromSlash(index))); err == nil {
			name = index
		} else {
			http.FileServer(dir).ServeHTTP(w, req)
			return
		}
	}
	if !isHTML(name) {
		http.FileServer(dir).ServeHTTP(w, req)
		return
	}
	p.serveInjected(w, req, dir, name)
}

func (p *Player) serveInjected(w http.ResponseWriter, req *http.Request, dir http.Dir, name string) {
	f, err := dir.Open(name)
	if err != nil {
		serveError(w, err)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		serveError(w, err)
		return
	}
	page, err := InjectShim(f, ShimPath)
	if err != nil {
		p.logger.Error("injecting shim", "path", name, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// no charset: legacy packages declare their own with <meta charset>
	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, req, path.Base(name), info.ModTime(), bytes.NewReader(page))
}

func isHTML(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return true
	}
	return false
}

func serveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, os.ErrNotExist):
		http.Error(w, "404 page not found", http.StatusNotFound)
	case errors.Is(err, os.ErrPermission):
		http.Error(w, "403 Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
	}
}

// Start serves p on addr in the background. baseURL has the form http://host:port; call
// close to stop the server.
func Start(p *Player, addr string) (baseURL string, close func(), err error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listening on %s", addr)
	}
	srv := &http.Server{
		Handler:           p,
		ReadHeaderTimeout: 10 * time.Second,
	}
	baseURL = "http://" + ln.Addr().String()
	p.logger.Info("player listening", "url", baseURL, "content", p.root)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.logger.Error("player stopped", "err", err)
		}
	}()
	return baseURL, func() {
		srv.Close()
		wg.Wait()
	}, nil
}

// Run serves p on addr until ctx is done.
func Run(ctx context.Context, p *Player, addr string) error {
	baseURL, closeServer, err := Start(p, addr)
	if err != nil {
		return err
	}
	defer closeServer()
	if p.launch != "" {
		fmt.Printf("Open %s/ to play %s\n", baseURL, p.launch)
	}
	<-ctx.Done()
	p.logger.Info("player shutting down")
	return nil
}
