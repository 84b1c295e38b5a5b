package form

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/vvstudiocode/korea-sub000/internal/catalog"
)

// FilterProducts narrows the catalog to names containing the query,
// case-insensitively. A blank query returns everything.
func FilterProducts(products []catalog.Product, query string) []catalog.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products
	}
	var out []catalog.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			out = append(out, p)
		}
	}
	return out
}

// RenderPicker emits the product picker modal for a manual-source section.
// Rows toggle in and out of a hidden ordered id list: the order the operator
// clicks is the order the section displays. Confirm posts that list; the
// already-selected ids seed it so reopening the picker keeps the current
// arrangement.
func RenderPicker(sectionID string, products []catalog.Product, query string, selected []string) template.HTML {
	selectedSet := make(map[string]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	var b strings.Builder
	b.WriteString(`<div class="picker-modal" id="product-picker">`)
	b.WriteString(`<div class="picker-panel">`)
	b.WriteString(`<h3 class="picker-title">選擇商品</h3>`)

	fmt.Fprintf(&b,
		`<input type="search" class="picker-search" name="q" value="%s" placeholder="搜尋商品名稱" `+
			`hx-get="/builder/picker" hx-trigger="keyup changed delay:300ms" hx-target="#product-picker" hx-swap="outerHTML" hx-include="[name='productIds']">`,
		esc(query))

	fmt.Fprintf(&b, `<form class="picker-form" hx-post="/builder/sections/%s/products" hx-swap="none">`, esc(sectionID))
	fmt.Fprintf(&b, `<input type="hidden" name="productIds" value="%s">`, esc(strings.Join(selected, ",")))

	b.WriteString(`<ul class="picker-list">`)
	if len(products) == 0 {
		b.WriteString(`<li class="picker-empty">找不到符合的商品</li>`)
	}
	for _, p := range products {
		class := "picker-item"
		if selectedSet[p.ID] {
			class += " picker-item-selected"
		}
		fmt.Fprintf(&b, `<li class="%s" data-product-id="%s" onclick="togglePick(this)">`, class, esc(p.ID))
		if img := p.PrimaryImage(); img != "" {
			fmt.Fprintf(&b, `<img class="picker-thumb" src="%s" alt="" loading="lazy">`, esc(img))
		}
		fmt.Fprintf(&b, `<span class="picker-name">%s</span>`, esc(p.Name))
		fmt.Fprintf(&b, `<span class="picker-price">NT$%d</span>`, p.Price)
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul>`)

	b.WriteString(`<div class="picker-actions">`)
	b.WriteString(`<button type="button" class="picker-cancel" onclick="this.closest('.picker-modal').remove()">取消</button>`)
	b.WriteString(`<button type="submit" class="picker-confirm">確認選擇</button>`)
	b.WriteString(`</div></form>`)

	// Click order is display order: toggling on appends the id, toggling off
	// removes it, everything else keeps its place.
	b.WriteString(`<script>function togglePick(el){` +
		`var list=el.closest('.picker-panel').querySelector("[name='productIds']");` +
		`var ids=list.value?list.value.split(','):[];var id=el.dataset.productId;var i=ids.indexOf(id);` +
		`if(i<0){ids.push(id);el.classList.add('picker-item-selected');}` +
		`else{ids.splice(i,1);el.classList.remove('picker-item-selected');}` +
		`list.value=ids.join(',');}</script>`)

	b.WriteString(`</div></div>`)
	return template.HTML(b.String())
}

// ParsePickedIDs decodes the picker's comma-joined ordered id list.
func ParsePickedIDs(raw string) []string {
	ids := []string{}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
