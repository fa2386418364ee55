// Package pdfexport describes printable documents declaratively and renders them
// to PDF.
package pdfexport

// Alignment values accepted by Paragraph and Style.
const (
	AlignLeft    = "L"
	AlignCenter  = "C"
	AlignRight   = "R"
	AlignJustify = "J"
)

const (
	PageA4     = "A4"
	PageLetter = "Letter"

	Portrait  = "P"
	Landscape = "L"
)

// Style is a named set of text attributes. Zero fields fall back to the
// document default style.
type Style struct {
	FontSize   float64
	Bold       bool
	Italic     bool
	Alignment  string
	SpaceAfter float64
}

type Document struct {
	Title        string
	Author       string
	PageSize     string
	Orientation  string
	DefaultStyle Style
	Styles       map[string]Style
	PageNumbers  bool
	Content      []Block
}

// Block is one element of the document body. The set of blocks is closed:
// Paragraph, Table, Spacer and PageBreak.
type Block interface {
	block()
}

type Paragraph struct {
	Text      string
	Style     string
	Bold      bool
	Italic    bool
	FontSize  float64
	Alignment string
}

// Table widths are relative weights; nil means equal columns.
type Table struct {
	Header []string
	Rows   [][]string
	Widths []float64
}

// Spacer adds vertical space, in millimetres.
type Spacer struct {
	Height float64
}

type PageBreak struct{}

func (Paragraph) block() {}
func (Table) block()     {}
func (Spacer) block()    {}
func (PageBreak) block() {}

func (d Document) resolve(p Paragraph) Style {
	s := d.DefaultStyle
	if named, ok := d.Styles[p.Style]; ok {
		if named.FontSize > 0 {
			s.FontSize = named.FontSize
		}
		if named.Alignment != "" {
			s.Alignment = named.Alignment
		}
		if named.SpaceAfter > 0 {
			s.SpaceAfter = named.SpaceAfter
		}
		s.Bold = s.Bold || named.Bold
		s.Italic = s.Italic || named.Italic
	}
	if p.FontSize > 0 {
		s.FontSize = p.FontSize
	}
	if p.Alignment != "" {
		s.Alignment = p.Alignment
	}
	s.Bold = s.Bold || p.Bold
	s.Italic = s.Italic || p.Italic

	if s.FontSize <= 0 {
		s.FontSize = defaultFontSize
	}
	if s.Alignment == "" {
		s.Alignment = AlignLeft
	}
	return s
}

func (s Style) fontStyle() string {
	out := ""
	if s.Bold {
		out += "B"
	}
	if s.Italic {
		out += "I"
	}
	return out
}
