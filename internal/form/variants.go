package form

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/vvstudiocode/korea-sub000/internal/catalog"
)

// RenderVariantTable emits one editable row per option combination, pre-filled
// from any existing variant matching the spec, else the product's scalar
// defaults. A product without usable options renders nothing — the variant
// block simply stays hidden, never an error.
func RenderVariantTable(p catalog.Product, refreshURL string) template.HTML {
	variants := catalog.ReconcileVariants(p)
	if len(variants) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="variant-table" hx-get="%s" hx-trigger="options-changed from:body delay:500ms" hx-swap="outerHTML">`,
		esc(refreshURL))

	b.WriteString(`<table><thead><tr>`)
	for _, dim := range p.Options {
		fmt.Fprintf(&b, `<th>%s</th>`, esc(dim.Name))
	}
	b.WriteString(`<th>售價</th><th>成本</th><th>庫存</th><th>圖片網址</th></tr></thead><tbody>`)

	for _, v := range variants {
		fmt.Fprintf(&b, `<tr class="variant-row" data-spec="%s">`, esc(v.Spec))
		for _, value := range catalog.SplitSpec(v.Spec) {
			fmt.Fprintf(&b, `<td class="variant-dim">%s</td>`, esc(value))
		}
		fmt.Fprintf(&b, `<td><input type="number" name="variantPrice.%s" value="%d" min="0"></td>`, esc(v.Spec), v.Price)
		fmt.Fprintf(&b, `<td><input type="number" name="variantCost.%s" value="%d" min="0"></td>`, esc(v.Spec), v.Cost)
		fmt.Fprintf(&b, `<td><input type="number" name="variantStock.%s" value="%d" min="0"></td>`, esc(v.Spec), v.Stock)
		fmt.Fprintf(&b, `<td><input type="text" name="variantImage.%s" value="%s" placeholder="選填"></td>`, esc(v.Spec), esc(v.Image))
		b.WriteString(`</tr>`)
	}

	b.WriteString(`</tbody></table></div>`)
	return template.HTML(b.String())
}
