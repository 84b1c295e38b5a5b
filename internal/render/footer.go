package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/vvstudiocode/korea-sub000/internal/layout"
)

// RenderFooter produces the document-level footer. It is invoked after the
// section pass; a nil footer renders nothing.
func (r *Renderer) RenderFooter(f *layout.Footer) template.HTML {
	if f == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<footer class="site-footer">`)

	if len(f.Notices) > 0 {
		b.WriteString(`<div class="footer-notices">`)
		for _, notice := range f.Notices {
			b.WriteString(`<details class="footer-notice">`)
			fmt.Fprintf(&b, `<summary>%s</summary>`, esc(notice.Title))
			for _, paragraph := range strings.Split(notice.Content, "\n") {
				if paragraph = strings.TrimSpace(paragraph); paragraph != "" {
					fmt.Fprintf(&b, `<p>%s</p>`, esc(paragraph))
				}
			}
			b.WriteString(`</details>`)
		}
		b.WriteString(`</div>`)
	}

	links := f.SocialLinks
	if links.Line != "" || links.Instagram != "" || links.Threads != "" {
		b.WriteString(`<div class="footer-social">`)
		writeSocialLink(&b, "line", links.Line)
		writeSocialLink(&b, "instagram", links.Instagram)
		writeSocialLink(&b, "threads", links.Threads)
		b.WriteString(`</div>`)
	}

	if f.Copyright != "" {
		fmt.Fprintf(&b, `<p class="footer-copyright">%s</p>`, esc(f.Copyright))
	}

	b.WriteString(`</footer>`)
	return template.HTML(b.String())
}

func writeSocialLink(b *strings.Builder, name, href string) {
	if href == "" {
		return
	}
	fmt.Fprintf(b, `<a class="social-link social-%s" href="%s" rel="noopener" target="_blank">%s</a>`, name, esc(href), name)
}

// fontStacks maps the supported font family enum onto concrete CSS stacks.
var fontStacks = map[string]string{
	"system":         `-apple-system,"PingFang TC","Microsoft JhengHei",sans-serif`,
	"noto-sans-kr":   `"Noto Sans KR","Noto Sans TC",sans-serif`,
	"noto-serif-kr":  `"Noto Serif KR","Noto Serif TC",serif`,
	"nanum-gothic":   `"Nanum Gothic",sans-serif`,
	"nanum-myeongjo": `"Nanum Myeongjo",serif`,
}

// GlobalStyleCSS emits the document-level CSS custom properties. It is a
// separate call from Render because global style is not a section.
func (r *Renderer) GlobalStyleCSS(g layout.GlobalStyle) template.CSS {
	background := cssValue(g.BackgroundColor)
	if background == "" {
		background = "#ffffff"
	}
	stack, ok := fontStacks[g.FontFamily]
	if !ok {
		stack = fontStacks["system"]
	}
	size := cssValue(g.FontSize)
	if size == "" {
		size = "16"
	}

	css := fmt.Sprintf(
		":root{--page-bg:%s;--page-font-family:%s;--page-font-size:%spx}body{background:var(--page-bg);font-family:var(--page-font-family);font-size:var(--page-font-size)}",
		background, stack, size)
	return template.CSS(css)
}
