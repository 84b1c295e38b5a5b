package catalog

import (
	"context"
	"strings"
)

// Product mirrors one row of the remote product sheet.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    int     `json:"price"`
	Cost     int     `json:"cost,omitempty"`
	Image    string  `json:"image"` // comma-joined URL list, first entry is the primary image
	Category string  `json:"category"`
	Stock    int     `json:"stock"`
	Status   string  `json:"status,omitempty"`
	Badge    string  `json:"badge,omitempty"`
	Options  Options `json:"options,omitempty"`

	Variants []Variant `json:"variants,omitempty"`
}

// Variant is one concrete combination of the product's option dimensions.
type Variant struct {
	Spec  string `json:"spec"` // dimension values joined by "/"
	Price int    `json:"price"`
	Cost  int    `json:"cost,omitempty"`
	Stock int    `json:"stock"`
	Image string `json:"image,omitempty"`
}

// Provider supplies the catalog array the renderer needs. It is the single
// explicit capability handed to the renderer and the builder; nothing in this
// repository guesses among ambient product lists.
type Provider interface {
	Products(ctx context.Context) ([]Product, error)
}

// PrimaryImage returns the first entry of the comma-joined image list.
func (p Product) PrimaryImage() string {
	img := p.Image
	if i := strings.IndexByte(img, ','); i >= 0 {
		img = img[:i]
	}
	return strings.TrimSpace(img)
}

// Images splits the comma-joined image list, dropping blanks.
func (p Product) Images() []string {
	parts := strings.Split(p.Image, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// VariantBySpec finds the variant matching the exact spec string.
func (p Product) VariantBySpec(spec string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.Spec == spec {
			return v, true
		}
	}
	return Variant{}, false
}
