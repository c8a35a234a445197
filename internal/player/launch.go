package player

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// LaunchCandidates are the entry pages authoring tools commonly emit, most specific first.
var LaunchCandidates = []string{"index_lms.html", "index.html", "story.html", "launch.html", "player.html"}

// ErrNoLaunchFile is returned when a content directory has none of the LaunchCandidates.
var ErrNoLaunchFile = errors.New("no launch file found")

// FindLaunchFile returns the slash-separated path, relative to dir, of the content's
// entry page. The shallowest candidate wins; at equal depth the earlier entry of
// LaunchCandidates wins. File names match case-insensitively.
func FindLaunchFile(dir string) (string, error) {
	best := ""
	bestDepth, bestRank := -1, -1
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rank := slices.Index(LaunchCandidates, strings.ToLower(d.Name()))
		if rank < 0 {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		depth := strings.Count(rel, "/")
		if best == "" || depth < bestDepth || (depth == bestDepth && rank < bestRank) {
			best, bestDepth, bestRank = rel, depth, rank
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, "scanning %s", dir)
	}
	if best == "" {
		return "", ErrNoLaunchFile
	}
	return best, nil
}
