package pdfexport

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

const (
	DefaultFilename = "documento.pdf"
	MsgRenderFailed = "Erro ao gerar PDF"

	defaultFontSize = 11
	lineFactor      = 0.45
)

var ErrUnsupportedBlock = errors.New("pdfexport: unsupported block")

// FontSet is the font family and code page used for every document.
type FontSet struct {
	Family   string
	Encoding string
}

func DefaultFontSet() FontSet {
	return FontSet{Family: "Helvetica", Encoding: "cp1252"}
}

// Exporter renders documents. It is safe for concurrent use; the text
// translator for the font set is built once in NewExporter.
type Exporter struct {
	fonts     FontSet
	translate func(string) string
	log       *zap.Logger
}

func NewExporter(fonts FontSet, log *zap.Logger) (*Exporter, error) {
	if fonts.Family == "" {
		fonts.Family = DefaultFontSet().Family
	}
	if fonts.Encoding == "" {
		fonts.Encoding = DefaultFontSet().Encoding
	}
	if log == nil {
		log = zap.NewNop()
	}

	setup := fpdf.New(Portrait, "mm", PageA4, "")
	tr := setup.UnicodeTranslatorFromDescriptor(fonts.Encoding)
	if setup.Err() {
		return nil, fmt.Errorf("pdfexport: font encoding %q: %w", fonts.Encoding, setup.Error())
	}
	return &Exporter{fonts: fonts, translate: tr, log: log}, nil
}

// Render builds the PDF in memory. Panics raised by the PDF library are
// returned as errors.
func (e *Exporter) Render(doc Document) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("pdfexport: render panic: %v", r)
		}
	}()

	pageSize := doc.PageSize
	if pageSize == "" {
		pageSize = PageA4
	}
	orientation := doc.Orientation
	if orientation == "" {
		orientation = Portrait
	}

	pdf := fpdf.New(orientation, "mm", pageSize, "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	if doc.Title != "" {
		pdf.SetTitle(doc.Title, true)
	}
	if doc.Author != "" {
		pdf.SetAuthor(doc.Author, true)
	}
	pdf.SetCreator("registrobo", true)

	if doc.PageNumbers {
		pdf.AliasNbPages("")
		pdf.SetFooterFunc(func() {
			pdf.SetY(-15)
			pdf.SetFont(e.fonts.Family, "I", 8)
			label := e.translate(fmt.Sprintf("Página %d/{nb}", pdf.PageNo()))
			pdf.CellFormat(0, 10, label, "", 0, AlignCenter, false, 0, "")
		})
	}

	pdf.AddPage()
	for i, b := range doc.Content {
		switch block := b.(type) {
		case Paragraph:
			e.paragraph(pdf, doc.resolve(block), block.Text)
		case Table:
			e.table(pdf, doc, block)
		case Spacer:
			pdf.Ln(block.Height)
		case PageBreak:
			pdf.AddPage()
		default:
			return nil, fmt.Errorf("%w: %T at position %d", ErrUnsupportedBlock, b, i)
		}
		if pdf.Err() {
			return nil, pdf.Error()
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lineHeight(size float64) float64 {
	return size * lineFactor
}

func (e *Exporter) paragraph(pdf *fpdf.Fpdf, s Style, text string) {
	pdf.SetFont(e.fonts.Family, s.fontStyle(), s.FontSize)
	pdf.MultiCell(0, lineHeight(s.FontSize), e.translate(text), "", s.Alignment, false)
	if s.SpaceAfter > 0 {
		pdf.Ln(s.SpaceAfter)
	}
}

func columnWidths(total float64, columns int, weights []float64) []float64 {
	widths := make([]float64, columns)
	sum := 0.0
	for i := 0; i < columns; i++ {
		w := 1.0
		if i < len(weights) && weights[i] > 0 {
			w = weights[i]
		}
		widths[i] = w
		sum += w
	}
	for i := range widths {
		widths[i] = total * widths[i] / sum
	}
	return widths
}

// measurable replaces runes outside the single byte range so that width
// lookups stay inside the core font metrics.
func measurable(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xff {
			return '?'
		}
		return r
	}, s)
}

const ellipsis = "..."

// fitCell wraps text to width and keeps at most maxLines lines, marking the cut
// with an ellipsis. It returns the text to draw and its line count.
func fitCell(pdf *fpdf.Fpdf, text string, width float64, maxLines int) (string, int) {
	if text == "" {
		return text, 1
	}
	lines := pdf.SplitText(measurable(text), width)
	if len(lines) == 0 {
		return text, 1
	}
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) <= maxLines {
		return text, len(lines)
	}

	kept := lines[:maxLines]
	last := []rune(strings.TrimRight(kept[maxLines-1], " "))
	for len(last) > 0 && pdf.GetStringWidth(string(last)+ellipsis) > width-2 {
		last = last[:len(last)-1]
	}
	kept[maxLines-1] = string(last) + ellipsis
	return strings.Join(kept, "\n"), maxLines
}

func (e *Exporter) table(pdf *fpdf.Fpdf, doc Document, t Table) {
	columns := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > columns {
			columns = len(row)
		}
	}
	if columns == 0 {
		return
	}

	size := doc.DefaultStyle.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	size -= 1
	lh := lineHeight(size)

	pageW, pageH := pdf.GetPageSize()
	left, top, right, bottom := pdf.GetMargins()
	widths := columnWidths(pageW-left-right, columns, t.Widths)
	// uma linha da tabela nunca passa de uma página
	maxLines := int((pageH - top - bottom - 2) / lh)

	drawRow := func(cells []string, header bool) {
		style := ""
		if header {
			style = "B"
		}
		pdf.SetFont(e.fonts.Family, style, size)

		texts := make([]string, columns)
		lines := 1
		for i := 0; i < columns; i++ {
			if i >= len(cells) {
				continue
			}
			text, n := fitCell(pdf, cells[i], widths[i], maxLines)
			texts[i] = text
			if n > lines {
				lines = n
			}
		}
		rowH := float64(lines)*lh + 2

		if pdf.GetY()+rowH > pageH-bottom {
			pdf.AddPage()
			pdf.SetFont(e.fonts.Family, style, size)
		}

		x, y := left, pdf.GetY()
		for i := 0; i < columns; i++ {
			if header {
				pdf.SetFillColor(225, 225, 225)
				pdf.Rect(x, y, widths[i], rowH, "FD")
			} else {
				pdf.Rect(x, y, widths[i], rowH, "D")
			}
			pdf.SetXY(x, y+1)
			pdf.MultiCell(widths[i], lh, e.translate(texts[i]), "", AlignLeft, false)
			x += widths[i]
		}
		pdf.SetXY(left, y+rowH)
	}

	if len(t.Header) > 0 {
		drawRow(t.Header, true)
	}
	for _, row := range t.Rows {
		drawRow(row, false)
	}
	pdf.Ln(2)
}

// Filename normalises a download name: empty becomes DefaultFilename and the
// .pdf suffix is appended when missing.
func Filename(name string) string {
	name = strings.TrimSpace(name)
	if name != "" {
		name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	}
	if name == "" || name == "." || name == "/" {
		return DefaultFilename
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

// Download renders doc and writes it as a single attachment response. On
// failure the client gets a 500 and nothing is retried.
func (e *Exporter) Download(c *gin.Context, doc Document, filename string) {
	name := Filename(filename)
	data, err := e.Render(doc)
	if err != nil {
		e.log.Error("pdf export failed",
			zap.String("filename", name),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": MsgRenderFailed})
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Data(http.StatusOK, "application/pdf", data)
}
