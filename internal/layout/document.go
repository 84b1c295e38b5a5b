package layout

import (
	"encoding/json"
	"time"
)

// Document is the full persisted description of a storefront homepage:
// ordered sections, footer, and global style. Section order is display order
// and must survive load/edit/save unchanged.
type Document struct {
	Sections []Section   `json:"sections"`
	Footer   *Footer     `json:"footer,omitempty"`
	Global   GlobalStyle `json:"global"`

	// Version and SavedAt are stamped by the builder on save.
	Version int       `json:"version,omitempty"`
	SavedAt time.Time `json:"savedAt"`
}

// Footer holds the document-level notices and social links.
type Footer struct {
	Notices     []Notice    `json:"notices,omitempty"`
	SocialLinks SocialLinks `json:"socialLinks"`
	Copyright   string      `json:"copyright,omitempty"`
}

// Notice is one expandable footer block; Content is newline-delimited paragraphs.
type Notice struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SocialLinks carries the optional social channel URLs shown in the footer.
type SocialLinks struct {
	Line      string `json:"line,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Threads   string `json:"threads,omitempty"`
}

// GlobalStyle applies to the whole page, outside any section.
type GlobalStyle struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty"`
	FontSize        string `json:"fontSize,omitempty"`
}

// FontFamilies lists the supported global font families in display order.
var FontFamilies = []string{
	"system",
	"noto-sans-kr",
	"noto-serif-kr",
	"nanum-gothic",
	"nanum-myeongjo",
}

// FontSizes lists the supported base font sizes (pixels) in display order.
var FontSizes = []string{"14", "15", "16", "17", "18"}

// Normalize repairs invariants across the whole document after decode.
func (d *Document) Normalize() {
	if d.Sections == nil {
		d.Sections = []Section{}
	}
	for i := range d.Sections {
		// Documents written by older clients carry no section ids; mint one
		// so every section is addressable by the builder.
		if d.Sections[i].ID == "" {
			d.Sections[i].ID = NewSectionID()
		}
		d.Sections[i].Normalize()
	}
	if d.Global.BackgroundColor == "" {
		d.Global.BackgroundColor = "#ffffff"
	}
	if d.Global.FontFamily == "" {
		d.Global.FontFamily = FontFamilies[0]
	}
	if d.Global.FontSize == "" {
		d.Global.FontSize = "16"
	}
}

// Decode parses a persisted document. A malformed payload is an error; the
// caller decides whether to fall back. Unknown section types survive decode.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	doc.Normalize()
	return doc, nil
}

// Encode serialises the document for the layout store. The encoding is
// lossless for every defined field kind so save/load round-trips exactly.
func (d Document) Encode() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Clone returns a deep copy; the renderer and handlers never share backing
// arrays with the editing session.
func (d Document) Clone() Document {
	cp := d
	cp.Sections = make([]Section, len(d.Sections))
	copy(cp.Sections, d.Sections)
	for i := range cp.Sections {
		cp.Sections[i] = d.Sections[i].clone()
	}
	if d.Footer != nil {
		f := *d.Footer
		f.Notices = make([]Notice, len(d.Footer.Notices))
		copy(f.Notices, d.Footer.Notices)
		cp.Footer = &f
	}
	return cp
}

func (s Section) clone() Section {
	cp := s
	if s.ProductIDs != nil {
		cp.ProductIDs = make([]string, len(s.ProductIDs))
		copy(cp.ProductIDs, s.ProductIDs)
	}
	if s.Slides != nil {
		cp.Slides = make([]Slide, len(s.Slides))
		copy(cp.Slides, s.Slides)
	}
	return cp
}
