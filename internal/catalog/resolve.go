package catalog

import "strings"

// CategoryAll is the sentinel category meaning "no filter"; it matches the
// value the layout store persists on category-sourced sections.
const CategoryAll = "全部"

// ResolveManual maps the curated id list through the catalog, preserving the
// id order exactly. Ids missing from the catalog are silently dropped, never
// substituted: a retired product simply vanishes from the section.
func ResolveManual(products []Product, ids []string) []Product {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ResolveCategory filters the catalog by category equality in catalog order,
// then truncates to limit. The CategoryAll sentinel (or a blank category)
// disables the filter; limit <= 0 means no truncation.
func ResolveCategory(products []Product, category string, limit int) []Product {
	category = strings.TrimSpace(category)
	all := category == "" || category == CategoryAll

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !all && p.Category != category {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Categories lists the distinct categories in first-seen catalog order.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0, len(products))
	for _, p := range products {
		cat := strings.TrimSpace(p.Category)
		if cat == "" {
			continue
		}
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	return out
}
