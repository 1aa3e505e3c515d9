package export

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"foodgram/internal/model"
)

const (
	fontFamily = "Helvetica"
	utf8Family = "ShoppingList"
	title      = "Shopping list"
	lineHeight = 8.0
)

// PDFRenderer renders a shopping list as an A4 PDF document.
type PDFRenderer struct {
	fontPath string
}

// NewPDFRenderer creates a renderer. When fontPath names a TrueType font it is
// embedded so non-Latin ingredient names render correctly; otherwise a core
// font with cp1252 translation is used.
func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath}
}

// ContentType is the MIME type of rendered documents.
func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

// Filename is the attachment name of rendered documents.
func (r *PDFRenderer) Filename() string {
	return "shopping_list.pdf"
}

// Render writes the document for items to w. An empty list yields a
// header-only document.
func (r *PDFRenderer) Render(w io.Writer, items []model.ShoppingItem) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 15)

	family := fontFamily
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontPath != "" {
		pdf.AddUTF8Font(utf8Family, "", r.fontPath)
		family = utf8Family
		translate = func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	pdf.AddPage()
	pdf.SetFont(family, "", 20)
	pdf.CellFormat(0, 12, translate(title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(family, "", 12)
	for i, line := range Lines(items) {
		pdf.CellFormat(0, lineHeight, translate(fmt.Sprintf("%d. %s", i+1, line)), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// Lines formats items as "Name - total unit".
func Lines(items []model.ShoppingItem) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s - %d %s", capitalize(item.Name), item.Total, item.MeasurementUnit))
	}
	return lines
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
