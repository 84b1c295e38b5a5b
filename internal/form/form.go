package form

import (
	"fmt"
	"html/template"
	"strings"
)

// RenderForm emits one bound control per descriptor. Every control patches
// its own value to patchURL: text-like kinds with a debounced keyup trigger,
// discrete kinds on change. Responses swap nothing; the handler raises a
// layout-changed event when the preview must refresh.
func RenderForm(title, patchURL string, fields []Field) template.HTML {
	var b strings.Builder
	b.WriteString(`<div class="edit-form">`)
	if title != "" {
		fmt.Fprintf(&b, `<h3 class="edit-form-title">%s</h3>`, esc(title))
	}
	for _, field := range fields {
		writeField(&b, patchURL, field)
	}
	b.WriteString(`</div>`)
	return template.HTML(b.String())
}

func writeField(b *strings.Builder, patchURL string, f Field) {
	fmt.Fprintf(b, `<label class="field field-%s"><span class="field-label">%s</span>`, f.Kind, esc(f.Label))

	hx := fmt.Sprintf(`hx-patch="%s" hx-swap="none"`, esc(patchURL))

	switch f.Kind {
	case KindTextarea:
		fmt.Fprintf(b, `<textarea name="%s" rows="6" %s hx-trigger="keyup changed delay:500ms, change">%s</textarea>`,
			esc(f.Name), hx, esc(f.Value))
	case KindSelect:
		fmt.Fprintf(b, `<select name="%s" %s hx-trigger="change">`, esc(f.Name), hx)
		for _, opt := range f.Options {
			selected := ""
			if opt.Value == f.Value {
				selected = " selected"
			}
			fmt.Fprintf(b, `<option value="%s"%s>%s</option>`, esc(opt.Value), selected, esc(opt.Label))
		}
		b.WriteString(`</select>`)
	case KindRange:
		fmt.Fprintf(b,
			`<input type="range" name="%s" value="%s" min="%d" max="%d" step="%d" %s hx-trigger="change" oninput="this.nextElementSibling.value=this.value">`,
			esc(f.Name), esc(f.Value), f.Min, f.Max, f.Step, hx)
		fmt.Fprintf(b, `<output class="field-readout">%s</output>`, esc(f.Value))
	case KindCheckbox:
		checked := ""
		if f.Value == "true" {
			checked = " checked"
		}
		// htmx serialises only the triggering element and an unchecked box
		// serialises nothing, so the state is sent explicitly; unchecking
		// must reach the server too.
		fmt.Fprintf(b, `<input type="checkbox" name="%s"%s %s hx-trigger="change" hx-vals='js:{"%s": event.target.checked}'>`,
			esc(f.Name), checked, hx, esc(f.Name))
	case KindColor:
		fmt.Fprintf(b, `<input type="color" name="%s" value="%s" %s hx-trigger="change">`,
			esc(f.Name), esc(f.Value), hx)
	default:
		placeholder := ""
		if f.Placeholder != "" {
			placeholder = fmt.Sprintf(` placeholder="%s"`, esc(f.Placeholder))
		}
		fmt.Fprintf(b, `<input type="text" name="%s" value="%s"%s %s hx-trigger="keyup changed delay:500ms, change">`,
			esc(f.Name), esc(f.Value), placeholder, hx)
	}

	b.WriteString(`</label>`)
}

func esc(v string) string {
	return template.HTMLEscapeString(v)
}
