package layout

// SectionType discriminates the section union. The renderer and the builder
// dispatch on it; unknown values survive decode so older documents keep
// rendering after a type is retired.
type SectionType string

const (
	SectionHero            SectionType = "hero"
	SectionCategories      SectionType = "categories"
	SectionProducts        SectionType = "products"
	SectionProductList     SectionType = "product_list"
	SectionInfo            SectionType = "info_section"
	SectionAnnouncement    SectionType = "announcement"
	SectionImageCarousel   SectionType = "image_carousel"
	SectionSingleImage     SectionType = "single_image"
	SectionTextCombination SectionType = "text_combination"
	SectionCustomCode      SectionType = "custom_code"
)

// SourceType selects how a product section resolves its items.
const (
	SourceCategory = "category"
	SourceManual   = "manual"
)

// Content formats for text-bearing sections.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Slide is one entry of an image_carousel section.
type Slide struct {
	Src       string `json:"src"`
	SrcMobile string `json:"srcMobile,omitempty"`
	Link      string `json:"link,omitempty"`
}

// Section is one typed, positioned block of the homepage. It is modelled as a
// flat record with a type tag: only the fields applicable to the tag are
// populated, everything else stays at its zero value and is omitted from JSON,
// so the persisted form matches the tagged-union shape of the layout store.
type Section struct {
	// ID is a ULID minted when the section is created. The editing session
	// tracks selection and reordering by id, never by list position.
	ID   string      `json:"id,omitempty"`
	Type SectionType `json:"type"`

	MarginTop    int    `json:"marginTop"`
	MarginBottom int    `json:"marginBottom"`
	TextAlign    string `json:"textAlign,omitempty"`

	// hero
	Title       string `json:"title,omitempty"`
	Subtitle    string `json:"subtitle,omitempty"`
	Image       string `json:"image,omitempty"`
	ImageMobile string `json:"imageMobile,omitempty"`
	ButtonText  string `json:"buttonText,omitempty"`
	ButtonLink  string `json:"buttonLink,omitempty"`

	// products / product_list
	SourceType     string   `json:"sourceType,omitempty"`
	Category       string   `json:"category,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	ProductIDs     []string `json:"productIds,omitempty"`
	DesktopColumns int      `json:"desktopColumns,omitempty"`
	MobileColumns  int      `json:"mobileColumns,omitempty"`

	// image_carousel
	Slides       []Slide `json:"images,omitempty"`
	RatioDesktop string  `json:"ratioDesktop,omitempty"`
	RatioMobile  string  `json:"ratioMobile,omitempty"`
	Speed        int     `json:"speed,omitempty"`

	// single_image / info_section
	Ratio         string `json:"ratio,omitempty"`
	Link          string `json:"link,omitempty"`
	Content       string `json:"content,omitempty"`
	ImageRatio    int    `json:"imageRatio,omitempty"`
	ImagePosition string `json:"imagePosition,omitempty"`

	// text_combination
	Format string `json:"format,omitempty"`

	// announcement
	Text      string `json:"text,omitempty"`
	Scrolling bool   `json:"scrolling,omitempty"`

	// categories
	ShowAll bool `json:"showAll,omitempty"`

	// custom_code (operator-trusted raw markup)
	Code string `json:"code,omitempty"`
}

// Normalize repairs the section's source-type invariants after decode:
// manual sections always carry a non-nil id list, category sections always
// carry a category and a positive limit.
func (s *Section) Normalize() {
	if s.Type != SectionProducts && s.Type != SectionProductList {
		return
	}
	switch s.SourceType {
	case SourceManual:
		if s.ProductIDs == nil {
			s.ProductIDs = []string{}
		}
	default:
		s.SourceType = SourceCategory
		if s.Category == "" {
			s.Category = CategoryAll
		}
		if s.Limit <= 0 {
			s.Limit = defaultProductLimit
		}
	}
}

// CategoryAll is the sentinel category meaning "no filter". The spreadsheet
// backend stores it verbatim, so it is part of the wire contract.
const CategoryAll = "全部"

const defaultProductLimit = 8
