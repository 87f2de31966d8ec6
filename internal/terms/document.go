package terms

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/bobmcallan/strata/internal/models"
)

// maxDocumentChars bounds extracted document text. Term sheets front-load
// the economics; nothing past this point changes the extraction.
const maxDocumentChars = 50000

var (
	scriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]+>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// StripHTML reduces an HTML document to its visible text with collapsed
// whitespace. Script and style bodies are dropped entirely.
func StripHTML(html string) string {
	text := scriptRe.ReplaceAllString(html, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	).Replace(text)
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// ExtractPDFText extracts text content from a PDF file.
func ExtractPDFText(pdfPath string) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	totalPages := r.NumPage()

	for i := 1; i <= totalPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")

		if sb.Len() > maxDocumentChars {
			break
		}
	}

	result := sb.String()
	if len(result) > maxDocumentChars {
		result = result[:maxDocumentChars]
	}

	return result, nil
}

// ExtractTermsPDF extracts text from a PDF term sheet and scans it.
func (e *Extractor) ExtractTermsPDF(pdfPath string) (*models.ProductTerms, error) {
	text, err := ExtractPDFText(pdfPath)
	if err != nil {
		return nil, err
	}
	return e.ExtractTerms(text), nil
}
