package model

import (
	"fmt"
	"strings"
	"time"
)

// PageText is the recognized text of a single page.
// Index is zero-based; the rendered header uses Index+1.
type PageText struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Transcript is the ordered per-page OCR output of a whole document.
// Pages are kept in strictly ascending Index order with no gaps.
type Transcript struct {
	Pages []PageText `json:"pages"`
}

// PageHeader returns the user-visible delimiter placed before a page's text.
func PageHeader(number int) string {
	return fmt.Sprintf("--- Page %d ---", number)
}

// String renders the transcript as one string with a header before each page:
// "\n\n--- Page N ---\n{text}".
func (t *Transcript) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range t.Pages {
		b.WriteString("\n\n")
		b.WriteString(PageHeader(p.Index + 1))
		b.WriteString("\n")
		b.WriteString(p.Text)
	}
	return b.String()
}

// TranscriptResult is returned to callers after a successful extraction run.
type TranscriptResult struct {
	ID        string     `json:"id"`
	Filename  string     `json:"filename"`
	PageCount int        `json:"page_count"`
	Engine    string     `json:"engine"`
	Text      string     `json:"text"`
	Pages     []PageText `json:"pages"`
	State     State      `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
}
