package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/vvstudiocode/korea-sub000/internal/layout"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
)

// bodyHTML converts a text-bearing section body into HTML. Markdown is the
// default; html format passes through verbatim only for trusted renderers,
// everything else goes through the sanitiser.
func (r *Renderer) bodyHTML(content, format string) string {
	switch format {
	case layout.FormatHTML:
		if r.trusted {
			return content
		}
		return r.policy.Sanitize(content)
	default:
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(content), &buf); err != nil {
			// A markdown body that fails to convert falls back to escaped text.
			return "<p>" + esc(content) + "</p>"
		}
		return r.policy.Sanitize(buf.String())
	}
}

// looksLikeDocument detects full-HTML-document payloads that must be isolated
// in a frame rather than injected inline.
func looksLikeDocument(code string) bool {
	lower := strings.ToLower(code)
	for _, marker := range []string{"<!doctype", "<html", "<head", "<body"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// writeCustomCode injects operator-authored markup. Full documents go into a
// sandboxed frame that self-measures its content height (the client re-reads
// it at fixed delays and via ResizeObserver for late-loading assets). Inline
// fragments pass through verbatim when the renderer is trusted; the client is
// responsible for re-executing embedded scripts in document order. Untrusted
// renderers sanitise the fragment and never execute scripts.
func (r *Renderer) writeCustomCode(b *strings.Builder, s layout.Section) {
	code := s.Code
	if strings.TrimSpace(code) == "" {
		return
	}

	if looksLikeDocument(code) {
		fmt.Fprintf(b,
			`<iframe class="custom-code-frame" sandbox="allow-scripts allow-same-origin" data-auto-resize="true" srcdoc="%s"></iframe>`,
			esc(code))
		return
	}

	if r.trusted {
		fmt.Fprintf(b, `<div class="custom-code" data-rerun-scripts="true">%s</div>`, code)
		return
	}
	fmt.Fprintf(b, `<div class="custom-code">%s</div>`, r.policy.Sanitize(code))
}
