package player

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// InjectShim returns the HTML document read from r with a <script src=src> tag as the
// first child of <head>, so the RTE exists before any content script runs. Documents
// without a <head> get one from the parser. A document already loading src is
// returned with no second tag.
func InjectShim(r io.Reader, src string) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing HTML")
	}
	head := doc.Find("head").First()
	if head.Length() == 0 {
		return nil, errors.New("document has no <head>")
	}
	already := doc.Find("script[src]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("src")
		return strings.TrimSpace(v) == src
	})
	if already.Length() == 0 {
		head.PrependHtml(fmt.Sprintf(`<script src=%q></script>`, src))
	}
	out, err := doc.Html()
	if err != nil {
		return nil, errors.Wrap(err, "rendering HTML")
	}
	return bytes.TrimSpace([]byte(out)), nil
}
