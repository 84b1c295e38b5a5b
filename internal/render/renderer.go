package render

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/vvstudiocode/korea-sub000/internal/catalog"
	"github.com/vvstudiocode/korea-sub000/internal/layout"
)

// Renderer turns a layout document into page markup. The storefront page and
// the builder's live preview both go through it, so the two renderings stay
// behaviorally identical. It only ever reads the document.
type Renderer struct {
	provider catalog.Provider
	trusted  bool
	policy   *bluemonday.Policy
}

// Option customises renderer construction.
type Option func(*Renderer)

// WithTrustedContent lets custom_code and html-format bodies pass through
// unsanitised. Only enable it when every operator of the layout store is
// trusted to inject arbitrary markup.
func WithTrustedContent(trusted bool) Option {
	return func(r *Renderer) { r.trusted = trusted }
}

// New constructs a renderer over the given product provider.
func New(provider catalog.Provider, opts ...Option) *Renderer {
	r := &Renderer{
		provider: provider,
		policy:   newContentPolicy(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newContentPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span", "div")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// Render produces one wrapper per known section, in document order. Unknown
// section types are skipped silently so newer documents keep rendering on
// older deployments. The output is stable: rendering the same document twice
// yields identical markup.
func (r *Renderer) Render(ctx context.Context, doc layout.Document) (template.HTML, error) {
	products := r.loadProducts(ctx, doc.Sections)

	var b strings.Builder
	for _, section := range doc.Sections {
		r.writeSection(&b, section, products)
	}
	return template.HTML(b.String()), nil
}

// RenderSection renders a single section fragment, used by the builder to
// refresh one block of the preview.
func (r *Renderer) RenderSection(ctx context.Context, section layout.Section) (template.HTML, error) {
	products := r.loadProducts(ctx, []layout.Section{section})

	var b strings.Builder
	r.writeSection(&b, section, products)
	return template.HTML(b.String()), nil
}

// loadProducts fetches the catalog once per render pass, and only when the
// document actually contains a section that needs it. Provider failure
// degrades to an empty catalog: product sections show their empty state
// rather than failing the whole page.
func (r *Renderer) loadProducts(ctx context.Context, sections []layout.Section) []catalog.Product {
	if r.provider == nil {
		return nil
	}
	needed := false
	for _, s := range sections {
		switch s.Type {
		case layout.SectionProducts, layout.SectionProductList, layout.SectionCategories:
			needed = true
		}
	}
	if !needed {
		return nil
	}
	products, err := r.provider.Products(ctx)
	if err != nil {
		return nil
	}
	return products
}

func (r *Renderer) writeSection(b *strings.Builder, s layout.Section, products []catalog.Product) {
	if !layout.Known(s.Type) {
		return
	}

	fmt.Fprintf(b, `<section class="page-section section-%s" data-section-id="%s" data-animate="fade-up" style="%s">`,
		esc(string(s.Type)), esc(s.ID), sectionStyle(s))

	switch s.Type {
	case layout.SectionHero:
		r.writeHero(b, s)
	case layout.SectionCategories:
		r.writeCategories(b, s, products)
	case layout.SectionProducts:
		r.writeProductScroller(b, s, products)
	case layout.SectionProductList:
		r.writeProductGrid(b, s, products)
	case layout.SectionInfo:
		r.writeInfo(b, s)
	case layout.SectionAnnouncement:
		r.writeAnnouncement(b, s)
	case layout.SectionImageCarousel:
		r.writeCarousel(b, s)
	case layout.SectionSingleImage:
		r.writeSingleImage(b, s)
	case layout.SectionTextCombination:
		r.writeTextCombination(b, s)
	case layout.SectionCustomCode:
		r.writeCustomCode(b, s)
	}

	b.WriteString(`</section>`)
}

func sectionStyle(s layout.Section) string {
	style := fmt.Sprintf("margin-top:%dpx;margin-bottom:%dpx", s.MarginTop, s.MarginBottom)
	if align := textAlign(s.TextAlign); align != "" {
		style += ";text-align:" + align
	}
	return style
}

func textAlign(v string) string {
	switch v {
	case "left", "center", "right":
		return v
	}
	return ""
}

// esc escapes text for both element and attribute positions.
func esc(v string) string {
	return template.HTMLEscapeString(v)
}

// cssValue strips characters that would break out of an inline style
// declaration. Values are operator-supplied, not user-supplied, but the
// renderer still refuses to emit anything structurally unsafe.
func cssValue(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\'', '\\':
			return -1
		}
		return r
	}, strings.TrimSpace(v))
}

// ratioValue keeps only the characters a CSS aspect-ratio accepts.
func ratioValue(v string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '/' || r == '.' || r == ' ' {
			return r
		}
		return -1
	}, v)
	return strings.TrimSpace(cleaned)
}
