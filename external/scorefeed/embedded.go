package scorefeed

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/hafizln/matchprobe/internal/platform/rawtree"
)

// The provider hydrates its pages from a JSON blob inlined in a script tag.
// The id is the stable container marker; when the template drops it we fall
// back to sniffing any script that looks like a hydration payload.
const embeddedScriptSelector = "script#__NEXT_DATA__"

var errNoEmbeddedDocument = crerr.New("no embedded document in page")

// extractEmbeddedDocument pulls the hydration blob out of a page and decodes
// it into a raw graph.
func extractEmbeddedDocument(html []byte) (rawtree.Value, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return rawtree.Absent, crerr.Wrap(errNoEmbeddedDocument, err.Error())
	}

	if text := strings.TrimSpace(doc.Find(embeddedScriptSelector).First().Text()); text != "" {
		root, decodeErr := rawtree.Decode([]byte(text))
		if decodeErr == nil {
			return root, nil
		}
	}

	var found rawtree.Value
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if !strings.HasPrefix(text, "{") || !strings.Contains(text, `"props"`) {
			return true
		}
		root, decodeErr := rawtree.Decode([]byte(text))
		if decodeErr != nil {
			return true
		}
		found = root
		return false
	})

	if found.Kind() == rawtree.KindAbsent {
		return rawtree.Absent, errNoEmbeddedDocument
	}
	return found, nil
}
