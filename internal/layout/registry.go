package layout

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Descriptor carries the presentation metadata the builder shows for a
// section type.
type Descriptor struct {
	Name string
	Icon string
}

// undefinedDescriptor is returned for any type the registry does not know.
// Describe is total: an old document with a retired type still gets a label.
var undefinedDescriptor = Descriptor{Name: "未定義區塊", Icon: "❓"}

var descriptors = map[SectionType]Descriptor{
	SectionHero:            {Name: "主視覺橫幅", Icon: "🖼"},
	SectionCategories:      {Name: "分類列表", Icon: "🗂"},
	SectionProducts:        {Name: "商品滑動列", Icon: "🛍"},
	SectionProductList:     {Name: "商品格狀列表", Icon: "🧱"},
	SectionInfo:            {Name: "圖文介紹", Icon: "📰"},
	SectionAnnouncement:    {Name: "公告跑馬燈", Icon: "📢"},
	SectionImageCarousel:   {Name: "圖片輪播", Icon: "🎞"},
	SectionSingleImage:     {Name: "單張圖片", Icon: "🏞"},
	SectionTextCombination: {Name: "文字區塊", Icon: "✍️"},
	SectionCustomCode:      {Name: "自訂程式碼", Icon: "</>"},
}

// Types lists the addable section types in palette order.
func Types() []SectionType {
	return []SectionType{
		SectionHero,
		SectionImageCarousel,
		SectionCategories,
		SectionProducts,
		SectionProductList,
		SectionSingleImage,
		SectionInfo,
		SectionTextCombination,
		SectionAnnouncement,
		SectionCustomCode,
	}
}

// Describe returns the display metadata for a section type. It never fails;
// unknown types map to the generic undefined descriptor.
func Describe(t SectionType) Descriptor {
	if d, ok := descriptors[t]; ok {
		return d
	}
	return undefinedDescriptor
}

// Known reports whether the type has a registered descriptor.
func Known(t SectionType) bool {
	_, ok := descriptors[t]
	return ok
}

// NewSection builds a fully-populated section of the given type so the
// preview renders immediately after "add section", without nil dereferences.
func NewSection(t SectionType) Section {
	s := Section{
		ID:           NewSectionID(),
		Type:         t,
		MarginTop:    0,
		MarginBottom: 20,
	}

	switch t {
	case SectionHero:
		s.Title = "新品上市"
		s.Subtitle = "嚴選韓國直送好物"
		s.ButtonText = "立即選購"
		s.ButtonLink = "#products"
		s.TextAlign = "center"
	case SectionCategories:
		s.Title = "商品分類"
		s.ShowAll = true
	case SectionProducts:
		s.Title = "人氣商品"
		s.SourceType = SourceCategory
		s.Category = CategoryAll
		s.Limit = defaultProductLimit
	case SectionProductList:
		s.Title = "全部商品"
		s.SourceType = SourceCategory
		s.Category = CategoryAll
		s.Limit = 12
		s.DesktopColumns = 4
		s.MobileColumns = 2
	case SectionInfo:
		s.Title = "關於我們"
		s.Content = "在這裡介紹你的品牌故事。"
		s.Format = FormatMarkdown
		s.ImageRatio = 50
		s.ImagePosition = "left"
	case SectionAnnouncement:
		s.Text = "全館滿額免運中"
		s.Scrolling = true
	case SectionImageCarousel:
		s.Slides = []Slide{}
		s.RatioDesktop = "21/9"
		s.RatioMobile = "4/3"
		s.Speed = 5
	case SectionSingleImage:
		s.Ratio = "16/9"
	case SectionTextCombination:
		s.Title = "標題"
		s.Content = "內文"
		s.Format = FormatMarkdown
		s.TextAlign = "center"
	case SectionCustomCode:
		s.Code = ""
	}

	s.Normalize()
	return s
}

// NewSectionID mints a sortable unique section identifier.
func NewSectionID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
