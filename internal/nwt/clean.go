package nwt

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultRemoveSelectors are the non-content elements observed in the
// source markup. The source evolves, so deployments can extend the list
// through NewCleaner rather than editing code.
var DefaultRemoveSelectors = []string{
	".xrefLink",
	".footnoteLink",
	".parabreak",
	".heading",
	"span.chapterNum",
	".studyNoteMarker",
}

// Cleaner strips source markup down to plain verse text.
type Cleaner struct {
	removeSelectors []string
	logger          *slog.Logger
}

// NewCleaner builds a cleaner. With no selectors it uses
// DefaultRemoveSelectors; passing selectors replaces the set entirely.
func NewCleaner(logger *slog.Logger, removeSelectors ...string) *Cleaner {
	if len(removeSelectors) == 0 {
		removeSelectors = DefaultRemoveSelectors
	}
	return &Cleaner{removeSelectors: removeSelectors, logger: logger}
}

// CleanToPlainText never fails: empty input yields "", and markup the
// parser chokes on is logged and yields "". Callers treat an empty
// result as "no verse content".
func (c *Cleaner) CleanToPlainText(markup string) string {
	if markup == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		c.logger.Error("failed to parse verse markup", "error", err)
		return ""
	}

	doc.Find(strings.Join(c.removeSelectors, ", ")).Remove()

	// Prefer the dedicated verse span, then the styled content spans the
	// chapter view uses, then whatever text the fragment has left.
	text := doc.Find("span.verse").Text()
	if text == "" {
		text = doc.Find(`span[class^="style-"]`).Text()
	}
	if text == "" {
		text = doc.Text()
	}

	// Footnote markers survive as stray '+' characters.
	text = strings.ReplaceAll(text, "+", "")
	return strings.Join(strings.Fields(text), " ")
}
