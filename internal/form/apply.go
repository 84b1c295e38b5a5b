package form

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vvstudiocode/korea-sub000/internal/layout"
)

// ErrUnknownField is returned when an apply call names a field the target
// does not carry.
var ErrUnknownField = errors.New("form: unknown field")

// ApplySection writes one field value into the section. It reports whether
// the edit is structural: structural edits change which controls or items
// exist (source type switches) and require a full preview re-render, plain
// value edits do not. Numeric fields coerce leniently; an unparsable number
// leaves the previous value in place.
func ApplySection(s *layout.Section, name, value string) (structural bool, err error) {
	switch name {
	case "title":
		s.Title = value
	case "subtitle":
		s.Subtitle = value
	case "image":
		s.Image = value
	case "imageMobile":
		s.ImageMobile = value
	case "buttonText":
		s.ButtonText = value
	case "buttonLink":
		s.ButtonLink = value
	case "textAlign":
		s.TextAlign = value
	case "category":
		s.Category = value
	case "link":
		s.Link = value
	case "content":
		s.Content = value
	case "format":
		s.Format = value
	case "text":
		s.Text = value
	case "code":
		s.Code = value
	case "imagePosition":
		s.ImagePosition = value
	case "ratio":
		s.Ratio = value
	case "ratioDesktop":
		s.RatioDesktop = value
	case "ratioMobile":
		s.RatioMobile = value

	case "marginTop":
		coerceInt(&s.MarginTop, value)
	case "marginBottom":
		coerceInt(&s.MarginBottom, value)
	case "limit":
		coerceInt(&s.Limit, value)
	case "desktopColumns":
		coerceInt(&s.DesktopColumns, value)
	case "mobileColumns":
		coerceInt(&s.MobileColumns, value)
	case "speed":
		coerceInt(&s.Speed, value)
	case "imageRatio":
		coerceInt(&s.ImageRatio, value)

	case "scrolling":
		s.Scrolling = coerceBool(value)
	case "showAll":
		s.ShowAll = coerceBool(value)

	case "sourceType":
		s.SourceType = value
		s.Normalize()
		return true, nil

	default:
		return false, ErrUnknownField
	}
	return false, nil
}

// ApplyFooter writes one footer field. Notice fields are addressed as
// noticeTitle.N / noticeContent.N; an out-of-range index is an unknown field.
func ApplyFooter(f *layout.Footer, name, value string) error {
	if field, index, ok := noticeField(name); ok {
		if index < 0 || index >= len(f.Notices) {
			return ErrUnknownField
		}
		if field == "noticeTitle" {
			f.Notices[index].Title = value
		} else {
			f.Notices[index].Content = value
		}
		return nil
	}

	switch name {
	case "line":
		f.SocialLinks.Line = value
	case "instagram":
		f.SocialLinks.Instagram = value
	case "threads":
		f.SocialLinks.Threads = value
	case "copyright":
		f.Copyright = value
	default:
		return ErrUnknownField
	}
	return nil
}

// ApplyGlobal writes one global style field.
func ApplyGlobal(g *layout.GlobalStyle, name, value string) error {
	switch name {
	case "backgroundColor":
		g.BackgroundColor = value
	case "fontFamily":
		g.FontFamily = value
	case "fontSize":
		g.FontSize = value
	default:
		return ErrUnknownField
	}
	return nil
}

func noticeField(name string) (field string, index int, ok bool) {
	for _, prefix := range []string{"noticeTitle.", "noticeContent."} {
		if rest, found := strings.CutPrefix(name, prefix); found {
			i, err := strconv.Atoi(rest)
			if err != nil {
				return "", 0, false
			}
			return strings.TrimSuffix(prefix, "."), i, true
		}
	}
	return "", 0, false
}

func coerceInt(dst *int, value string) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return
	}
	*dst = n
}

func coerceBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "1":
		return true
	}
	return false
}
