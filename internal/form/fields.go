package form

import (
	"fmt"
	"strconv"

	"github.com/vvstudiocode/korea-sub000/internal/layout"
)

// Kind selects the control a field renders as.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindSelect   Kind = "select"
	KindRange    Kind = "range"
	KindCheckbox Kind = "checkbox"
	KindColor    Kind = "color"
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Field is one bound control of an edit form: what to render, what name the
// value posts under, and the current value. The same descriptor shape drives
// section, footer and global-style forms.
type Field struct {
	Name    string
	Label   string
	Kind    Kind
	Value   string
	Options []Option

	// Range bounds.
	Min  int
	Max  int
	Step int

	Placeholder string
}

var alignOptions = []Option{
	{Value: "left", Label: "靠左"},
	{Value: "center", Label: "置中"},
	{Value: "right", Label: "靠右"},
}

var formatOptions = []Option{
	{Value: layout.FormatMarkdown, Label: "Markdown"},
	{Value: layout.FormatHTML, Label: "HTML"},
}

var sourceOptions = []Option{
	{Value: layout.SourceCategory, Label: "依分類"},
	{Value: layout.SourceManual, Label: "手動選擇"},
}

func text(name, label, value string) Field {
	return Field{Name: name, Label: label, Kind: KindText, Value: value}
}

func textarea(name, label, value string) Field {
	return Field{Name: name, Label: label, Kind: KindTextarea, Value: value}
}

func sel(name, label, value string, options []Option) Field {
	return Field{Name: name, Label: label, Kind: KindSelect, Value: value, Options: options}
}

func rng(name, label string, value, min, max, step int) Field {
	return Field{Name: name, Label: label, Kind: KindRange, Value: strconv.Itoa(value), Min: min, Max: max, Step: step}
}

func checkbox(name, label string, value bool) Field {
	return Field{Name: name, Label: label, Kind: KindCheckbox, Value: strconv.FormatBool(value)}
}

// SectionFields returns the descriptor set for a section's edit form: the
// type-specific fields first, then the shared margin and alignment fields.
// Unknown types get only the shared fields, so even a retired section can
// still be positioned.
func SectionFields(s layout.Section, categories []string) []Field {
	var fields []Field

	switch s.Type {
	case layout.SectionHero:
		fields = append(fields,
			text("title", "標題", s.Title),
			text("subtitle", "副標題", s.Subtitle),
			text("image", "桌機圖片網址", s.Image),
			text("imageMobile", "手機圖片網址", s.ImageMobile),
			text("buttonText", "按鈕文字", s.ButtonText),
			text("buttonLink", "按鈕連結", s.ButtonLink),
		)
	case layout.SectionCategories:
		fields = append(fields,
			text("title", "標題", s.Title),
			checkbox("showAll", "顯示「全部」", s.ShowAll),
		)
	case layout.SectionProducts, layout.SectionProductList:
		fields = append(fields,
			text("title", "標題", s.Title),
			sel("sourceType", "商品來源", s.SourceType, sourceOptions),
		)
		// Manual sections edit their id list through the product picker.
		if s.SourceType != layout.SourceManual {
			fields = append(fields,
				sel("category", "分類", s.Category, categoryOptions(categories)),
				rng("limit", "顯示數量", s.Limit, 1, 24, 1),
			)
		}
		if s.Type == layout.SectionProductList {
			fields = append(fields,
				rng("desktopColumns", "桌機欄數", s.DesktopColumns, 2, 6, 1),
				rng("mobileColumns", "手機欄數", s.MobileColumns, 1, 3, 1),
			)
		}
	case layout.SectionInfo:
		fields = append(fields,
			text("title", "標題", s.Title),
			textarea("content", "內文", s.Content),
			sel("format", "內文格式", s.Format, formatOptions),
			text("image", "圖片網址", s.Image),
			text("imageMobile", "手機圖片網址", s.ImageMobile),
			sel("imagePosition", "圖片位置", s.ImagePosition, []Option{
				{Value: "left", Label: "圖左文右"},
				{Value: "right", Label: "圖右文左"},
			}),
			rng("imageRatio", "圖片寬度比例", s.ImageRatio, 20, 80, 5),
		)
	case layout.SectionAnnouncement:
		fields = append(fields,
			text("text", "公告內容", s.Text),
			text("link", "連結", s.Link),
			checkbox("scrolling", "跑馬燈捲動", s.Scrolling),
		)
	case layout.SectionImageCarousel:
		fields = append(fields,
			text("ratioDesktop", "桌機比例", s.RatioDesktop),
			text("ratioMobile", "手機比例", s.RatioMobile),
			rng("speed", "自動輪播秒數（0 為停用）", s.Speed, 0, 15, 1),
		)
	case layout.SectionSingleImage:
		fields = append(fields,
			text("image", "桌機圖片網址", s.Image),
			text("imageMobile", "手機圖片網址", s.ImageMobile),
			text("ratio", "顯示比例", s.Ratio),
			text("link", "點擊連結", s.Link),
		)
	case layout.SectionTextCombination:
		fields = append(fields,
			text("title", "標題", s.Title),
			textarea("content", "內文", s.Content),
			sel("format", "內文格式", s.Format, formatOptions),
		)
	case layout.SectionCustomCode:
		fields = append(fields,
			textarea("code", "自訂程式碼", s.Code),
		)
	}

	fields = append(fields,
		rng("marginTop", "上方間距", s.MarginTop, 0, 120, 4),
		rng("marginBottom", "下方間距", s.MarginBottom, 0, 120, 4),
	)
	if hasTextAlign(s.Type) {
		fields = append(fields, sel("textAlign", "文字對齊", s.TextAlign, alignOptions))
	}
	return fields
}

func hasTextAlign(t layout.SectionType) bool {
	switch t {
	case layout.SectionHero, layout.SectionInfo, layout.SectionTextCombination, layout.SectionAnnouncement:
		return true
	}
	return false
}

func categoryOptions(categories []string) []Option {
	options := []Option{{Value: layout.CategoryAll, Label: layout.CategoryAll}}
	for _, c := range categories {
		options = append(options, Option{Value: c, Label: c})
	}
	return options
}

// FooterFields returns the descriptor set for the footer form. Notice rows
// use index-suffixed names so the generic apply routine can address them.
func FooterFields(f layout.Footer) []Field {
	var fields []Field
	for i, notice := range f.Notices {
		fields = append(fields,
			text(fmt.Sprintf("noticeTitle.%d", i), fmt.Sprintf("須知 %d 標題", i+1), notice.Title),
			textarea(fmt.Sprintf("noticeContent.%d", i), fmt.Sprintf("須知 %d 內容", i+1), notice.Content),
		)
	}
	fields = append(fields,
		text("line", "LINE 連結", f.SocialLinks.Line),
		text("instagram", "Instagram 連結", f.SocialLinks.Instagram),
		text("threads", "Threads 連結", f.SocialLinks.Threads),
		text("copyright", "版權聲明", f.Copyright),
	)
	return fields
}

// GlobalFields returns the descriptor set for the global style form.
func GlobalFields(g layout.GlobalStyle) []Field {
	families := make([]Option, 0, len(layout.FontFamilies))
	for _, f := range layout.FontFamilies {
		families = append(families, Option{Value: f, Label: fontFamilyLabels[f]})
	}
	sizes := make([]Option, 0, len(layout.FontSizes))
	for _, s := range layout.FontSizes {
		sizes = append(sizes, Option{Value: s, Label: s + "px"})
	}
	return []Field{
		{Name: "backgroundColor", Label: "背景顏色", Kind: KindColor, Value: g.BackgroundColor},
		sel("fontFamily", "字體", g.FontFamily, families),
		sel("fontSize", "基礎字級", g.FontSize, sizes),
	}
}

var fontFamilyLabels = map[string]string{
	"system":         "系統預設",
	"noto-sans-kr":   "Noto Sans KR",
	"noto-serif-kr":  "Noto Serif KR",
	"nanum-gothic":   "Nanum Gothic",
	"nanum-myeongjo": "Nanum Myeongjo",
}
