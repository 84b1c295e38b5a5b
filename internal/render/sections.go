package render

import (
	"fmt"
	"strings"

	"github.com/vvstudiocode/korea-sub000/internal/catalog"
	"github.com/vvstudiocode/korea-sub000/internal/layout"
)

// The hero renders a desktop/mobile background pair; the stylesheet switches
// between .hero-bg-desktop and .hero-bg-mobile at the 768px breakpoint.
func (r *Renderer) writeHero(b *strings.Builder, s layout.Section) {
	b.WriteString(`<div class="hero">`)
	if s.Image != "" {
		fmt.Fprintf(b, `<div class="hero-bg hero-bg-desktop" style="background-image:url('%s')"></div>`, esc(cssValue(s.Image)))
	}
	if mobile := firstNonEmpty(s.ImageMobile, s.Image); mobile != "" {
		fmt.Fprintf(b, `<div class="hero-bg hero-bg-mobile" style="background-image:url('%s')"></div>`, esc(cssValue(mobile)))
	}
	b.WriteString(`<div class="hero-overlay"></div><div class="hero-content">`)
	if s.Title != "" {
		fmt.Fprintf(b, `<h1 class="hero-title">%s</h1>`, esc(s.Title))
	}
	if s.Subtitle != "" {
		fmt.Fprintf(b, `<p class="hero-subtitle">%s</p>`, esc(s.Subtitle))
	}
	if s.ButtonText != "" {
		fmt.Fprintf(b, `<a class="hero-cta" href="%s">%s</a>`, esc(firstNonEmpty(s.ButtonLink, "#")), esc(s.ButtonText))
	}
	b.WriteString(`</div></div>`)
}

func (r *Renderer) writeCategories(b *strings.Builder, s layout.Section, products []catalog.Product) {
	if s.Title != "" {
		fmt.Fprintf(b, `<h2 class="section-title">%s</h2>`, esc(s.Title))
	}
	b.WriteString(`<nav class="category-nav">`)
	if s.ShowAll {
		fmt.Fprintf(b, `<a class="category-pill" href="?category=%s">%s</a>`, esc(catalog.CategoryAll), esc(catalog.CategoryAll))
	}
	for _, cat := range catalog.Categories(products) {
		fmt.Fprintf(b, `<a class="category-pill" href="?category=%s">%s</a>`, esc(cat), esc(cat))
	}
	b.WriteString(`</nav>`)
}

// resolveItems materialises a product section's item list by source type.
func resolveItems(s layout.Section, products []catalog.Product) []catalog.Product {
	if s.SourceType == layout.SourceManual {
		return catalog.ResolveManual(products, s.ProductIDs)
	}
	return catalog.ResolveCategory(products, s.Category, s.Limit)
}

func (r *Renderer) writeProductScroller(b *strings.Builder, s layout.Section, products []catalog.Product) {
	if s.Title != "" {
		fmt.Fprintf(b, `<h2 class="section-title">%s</h2>`, esc(s.Title))
	}
	items := resolveItems(s, products)
	if len(items) == 0 {
		b.WriteString(`<p class="section-empty">此區塊暫無商品</p>`)
		return
	}
	b.WriteString(`<div class="product-scroller" data-drag-scroll="true">`)
	b.WriteString(`<button type="button" class="scroller-nav scroller-prev" aria-label="上一頁">‹</button>`)
	b.WriteString(`<div class="scroller-track">`)
	for _, p := range items {
		writeProductCard(b, p)
	}
	b.WriteString(`</div>`)
	b.WriteString(`<button type="button" class="scroller-nav scroller-next" aria-label="下一頁">›</button>`)
	b.WriteString(`</div>`)
}

func (r *Renderer) writeProductGrid(b *strings.Builder, s layout.Section, products []catalog.Product) {
	if s.Title != "" {
		fmt.Fprintf(b, `<h2 class="section-title">%s</h2>`, esc(s.Title))
	}
	items := resolveItems(s, products)
	if len(items) == 0 {
		b.WriteString(`<p class="section-empty">尚未選擇任何商品</p>`)
		return
	}
	desktop := s.DesktopColumns
	if desktop <= 0 {
		desktop = 4
	}
	mobile := s.MobileColumns
	if mobile <= 0 {
		mobile = 2
	}
	fmt.Fprintf(b, `<div class="product-grid" style="--cols-desktop:%d;--cols-mobile:%d">`, desktop, mobile)
	for _, p := range items {
		writeProductCard(b, p)
	}
	b.WriteString(`</div>`)
}

func writeProductCard(b *strings.Builder, p catalog.Product) {
	fmt.Fprintf(b, `<a class="product-card" href="/products/%s" data-product-id="%s">`, esc(p.ID), esc(p.ID))
	if img := p.PrimaryImage(); img != "" {
		fmt.Fprintf(b, `<img class="product-image" src="%s" alt="%s" loading="lazy">`, esc(img), esc(p.Name))
	}
	if p.Badge != "" {
		fmt.Fprintf(b, `<span class="product-badge">%s</span>`, esc(p.Badge))
	}
	fmt.Fprintf(b, `<span class="product-name">%s</span>`, esc(p.Name))
	fmt.Fprintf(b, `<span class="product-price">NT$%d</span>`, p.Price)
	if p.Stock <= 0 && len(p.Variants) == 0 {
		b.WriteString(`<span class="product-soldout">售完</span>`)
	}
	b.WriteString(`</a>`)
}

// writeCarousel emits a snap strip; autoplay is encoded as a data attribute
// the client timer reads. Speed 0 omits the attribute entirely, which
// disables automatic advance.
func (r *Renderer) writeCarousel(b *strings.Builder, s layout.Section) {
	if len(s.Slides) == 0 {
		b.WriteString(`<p class="section-empty">尚未加入任何圖片</p>`)
		return
	}

	b.WriteString(`<div class="image-carousel"`)
	if s.Speed > 0 {
		fmt.Fprintf(b, ` data-autoplay-seconds="%d"`, s.Speed)
	}
	fmt.Fprintf(b, ` style="%s">`, carouselStyle(s))

	b.WriteString(`<div class="carousel-track">`)
	for i, slide := range s.Slides {
		fmt.Fprintf(b, `<div class="carousel-slide" data-slide-index="%d">`, i)
		if slide.Link != "" {
			fmt.Fprintf(b, `<a href="%s">`, esc(slide.Link))
		}
		fmt.Fprintf(b, `<img class="slide-image slide-image-desktop" src="%s" alt="" loading="lazy">`, esc(slide.Src))
		if mobile := firstNonEmpty(slide.SrcMobile, slide.Src); mobile != "" {
			fmt.Fprintf(b, `<img class="slide-image slide-image-mobile" src="%s" alt="" loading="lazy">`, esc(mobile))
		}
		if slide.Link != "" {
			b.WriteString(`</a>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div></div>`)
}

func carouselStyle(s layout.Section) string {
	var parts []string
	if ratio := ratioValue(s.RatioDesktop); ratio != "" {
		parts = append(parts, "--ratio-desktop:"+ratio)
	}
	if ratio := ratioValue(s.RatioMobile); ratio != "" {
		parts = append(parts, "--ratio-mobile:"+ratio)
	}
	return strings.Join(parts, ";")
}

func (r *Renderer) writeSingleImage(b *strings.Builder, s layout.Section) {
	if s.Image == "" && s.ImageMobile == "" {
		b.WriteString(`<p class="section-empty">尚未設定圖片</p>`)
		return
	}
	style := ""
	if ratio := ratioValue(s.Ratio); ratio != "" {
		style = fmt.Sprintf(` style="aspect-ratio:%s"`, ratio)
	}
	fmt.Fprintf(b, `<figure class="single-image"%s>`, style)
	if s.Link != "" {
		fmt.Fprintf(b, `<a href="%s">`, esc(s.Link))
	}
	if s.Image != "" {
		fmt.Fprintf(b, `<img class="single-image-desktop" src="%s" alt="" loading="lazy">`, esc(s.Image))
	}
	if mobile := firstNonEmpty(s.ImageMobile, s.Image); mobile != "" {
		fmt.Fprintf(b, `<img class="single-image-mobile" src="%s" alt="" loading="lazy">`, esc(mobile))
	}
	if s.Link != "" {
		b.WriteString(`</a>`)
	}
	b.WriteString(`</figure>`)
}

func (r *Renderer) writeInfo(b *strings.Builder, s layout.Section) {
	imageRatio := s.ImageRatio
	if imageRatio <= 0 || imageRatio >= 100 {
		imageRatio = 50
	}
	position := s.ImagePosition
	if position != "right" {
		position = "left"
	}
	fmt.Fprintf(b, `<div class="info-section info-image-%s" style="--image-ratio:%d%%">`, position, imageRatio)
	if s.Image != "" {
		b.WriteString(`<div class="info-media">`)
		fmt.Fprintf(b, `<img class="info-image-desktop" src="%s" alt="" loading="lazy">`, esc(s.Image))
		if mobile := firstNonEmpty(s.ImageMobile, s.Image); mobile != "" {
			fmt.Fprintf(b, `<img class="info-image-mobile" src="%s" alt="" loading="lazy">`, esc(mobile))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`<div class="info-body">`)
	if s.Title != "" {
		fmt.Fprintf(b, `<h2 class="info-title">%s</h2>`, esc(s.Title))
	}
	if s.Content != "" {
		fmt.Fprintf(b, `<div class="info-content">%s</div>`, r.bodyHTML(s.Content, s.Format))
	}
	b.WriteString(`</div></div>`)
}

func (r *Renderer) writeAnnouncement(b *strings.Builder, s layout.Section) {
	if s.Text == "" {
		return
	}
	class := "announcement"
	if s.Scrolling {
		class += " announcement-scrolling"
	}
	fmt.Fprintf(b, `<div class="%s"`, class)
	if s.Scrolling {
		b.WriteString(` data-marquee="true"`)
	}
	b.WriteString(`>`)
	if s.Link != "" {
		fmt.Fprintf(b, `<a href="%s">%s</a>`, esc(s.Link), esc(s.Text))
	} else {
		fmt.Fprintf(b, `<span>%s</span>`, esc(s.Text))
	}
	b.WriteString(`</div>`)
}

func (r *Renderer) writeTextCombination(b *strings.Builder, s layout.Section) {
	b.WriteString(`<div class="text-combination">`)
	if s.Title != "" {
		fmt.Fprintf(b, `<h2 class="section-title">%s</h2>`, esc(s.Title))
	}
	if s.Content != "" {
		fmt.Fprintf(b, `<div class="text-body">%s</div>`, r.bodyHTML(s.Content, s.Format))
	}
	b.WriteString(`</div>`)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
