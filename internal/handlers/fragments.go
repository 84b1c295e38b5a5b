package handlers

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/vvstudiocode/korea-sub000/internal/builder"
	"github.com/vvstudiocode/korea-sub000/internal/catalog"
	"github.com/vvstudiocode/korea-sub000/internal/form"
	"github.com/vvstudiocode/korea-sub000/internal/layout"
	"github.com/vvstudiocode/korea-sub000/internal/render"
)

func esc(v string) string {
	return template.HTMLEscapeString(v)
}

// paletteFragment lists the addable section types. The stylesheet hides it in
// read-only sessions; the server still rejects the posts.
func paletteFragment() template.HTML {
	var b strings.Builder
	b.WriteString(`<div class="palette">`)
	for _, t := range layout.Types() {
		d := layout.Describe(t)
		fmt.Fprintf(&b,
			`<button hx-post="/builder/sections" hx-vals='{"type":"%s"}' hx-swap="none">%s %s</button>`,
			esc(string(t)), esc(d.Icon), esc(d.Name))
	}
	b.WriteString(`</div>`)
	return template.HTML(b.String())
}

// sectionListFragment renders the ordered section list with per-item select,
// move and delete controls.
func sectionListFragment(doc layout.Document, selection builder.Selection) template.HTML {
	var b strings.Builder
	b.WriteString(`<ul class="section-list">`)
	for i, s := range doc.Sections {
		d := layout.Describe(s.Type)
		class := "section-item"
		if selection.Kind == builder.SelectSection && selection.SectionID == s.ID {
			class += " section-item-selected"
		}
		fmt.Fprintf(&b, `<li class="%s" data-section-id="%s" hx-post="/builder/sections/%s/select" hx-target="#edit-panel">`,
			class, esc(s.ID), esc(s.ID))
		fmt.Fprintf(&b, `<span class="section-item-icon">%s</span>`, esc(d.Icon))
		fmt.Fprintf(&b, `<span class="section-item-name">%s</span>`, esc(d.Name))
		if i > 0 {
			fmt.Fprintf(&b,
				`<button aria-label="上移" hx-post="/builder/sections/%s/move" hx-vals='{"to":"%d"}' hx-swap="none" onclick="event.stopPropagation()">↑</button>`,
				esc(s.ID), i-1)
		}
		if i < len(doc.Sections)-1 {
			fmt.Fprintf(&b,
				`<button aria-label="下移" hx-post="/builder/sections/%s/move" hx-vals='{"to":"%d"}' hx-swap="none" onclick="event.stopPropagation()">↓</button>`,
				esc(s.ID), i+1)
		}
		fmt.Fprintf(&b,
			`<button aria-label="刪除" hx-delete="/builder/sections/%s" hx-confirm="確定要刪除這個區塊？" hx-swap="none" onclick="event.stopPropagation()">✕</button>`,
			esc(s.ID))
		b.WriteString(`</li>`)
	}
	if len(doc.Sections) == 0 {
		b.WriteString(`<li class="panel-hint">從上方加入第一個區塊</li>`)
	}
	b.WriteString(`</ul>`)
	return template.HTML(b.String())
}

// editPanelFragment renders the form for the current edit target.
func editPanelFragment(doc layout.Document, selection builder.Selection, categories []string) template.HTML {
	switch selection.Kind {
	case builder.SelectSection:
		for _, s := range doc.Sections {
			if s.ID == selection.SectionID {
				return sectionFormFragment(s, categories)
			}
		}
		return `<p class="panel-hint">選取左側的區塊開始編輯</p>`
	case builder.SelectFooter:
		footer := layout.Footer{}
		if doc.Footer != nil {
			footer = *doc.Footer
		}
		var b strings.Builder
		b.WriteString(string(form.RenderForm("頁尾", "/builder/footer", form.FooterFields(footer))))
		b.WriteString(`<button class="panel-action" hx-post="/builder/footer/notices" hx-target="#edit-panel">新增購物須知</button>`)
		return template.HTML(b.String())
	case builder.SelectGlobal:
		return form.RenderForm("整體樣式", "/builder/global", form.GlobalFields(doc.Global))
	default:
		return `<p class="panel-hint">選取左側的區塊開始編輯</p>`
	}
}

func sectionFormFragment(s layout.Section, categories []string) template.HTML {
	var b strings.Builder
	d := layout.Describe(s.Type)
	b.WriteString(string(form.RenderForm(d.Name, "/builder/sections/"+s.ID, form.SectionFields(s, categories))))

	if (s.Type == layout.SectionProducts || s.Type == layout.SectionProductList) && s.SourceType == layout.SourceManual {
		fmt.Fprintf(&b,
			`<button class="panel-action" hx-get="/builder/picker?section=%s" hx-target="#modal">選擇商品（已選 %d 件）</button>`,
			esc(s.ID), len(s.ProductIDs))
	}
	return template.HTML(b.String())
}

// previewFragment renders the live preview: each section wrapped in an id'd
// container so field edits can swap one block out-of-band without touching
// the rest.
func previewFragment(ctx context.Context, renderer *render.Renderer, doc layout.Document) (template.HTML, error) {
	var b strings.Builder
	for _, s := range doc.Sections {
		if !layout.Known(s.Type) {
			continue
		}
		fragment, err := renderer.RenderSection(ctx, s)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, `<div class="preview-item" id="preview-%s">%s</div>`, esc(s.ID), fragment)
	}
	footer := renderer.RenderFooter(doc.Footer)
	if footer != "" {
		fmt.Fprintf(&b, `<div class="preview-item" id="preview-footer">%s</div>`, footer)
	}
	fmt.Fprintf(&b, `<style>%s</style>`, renderer.GlobalStyleCSS(doc.Global))
	return template.HTML(b.String()), nil
}

// oob wraps a fragment for an htmx out-of-band swap into the given element.
func oob(id string, fragment template.HTML) string {
	return fmt.Sprintf(`<div id="%s" hx-swap-oob="innerHTML">%s</div>`, esc(id), fragment)
}

func categoryNames(ctx context.Context, provider catalog.Provider) []string {
	if provider == nil {
		return nil
	}
	products, err := provider.Products(ctx)
	if err != nil {
		return nil
	}
	return catalog.Categories(products)
}
