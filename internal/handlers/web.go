package handlers

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vvstudiocode/korea-sub000/internal/layout"
	"github.com/vvstudiocode/korea-sub000/internal/platform/observability"
	"github.com/vvstudiocode/korea-sub000/internal/render"
)

// LayoutSource is the read side of the persistence gateway the storefront
// needs: a synchronous cache probe for instant paint plus the full fallback
// chain.
type LayoutSource interface {
	Load(ctx context.Context, storeID string) (layout.Document, error)
	Cached(storeID string) (layout.Document, bool)
}

// Web serves the public storefront.
type Web struct {
	source   LayoutSource
	renderer *render.Renderer
	storeID  string
	logger   *zap.Logger
}

// NewWeb builds the storefront handler set.
func NewWeb(source LayoutSource, renderer *render.Renderer, storeID string, logger *zap.Logger) *Web {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Web{source: source, renderer: renderer, storeID: storeID, logger: logger}
}

// Router assembles the storefront routes with the standard middleware chain.
func (h *Web) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(observability.RequestLogger(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", h.Healthz)
	r.Handle("/static/*", StaticHandler())
	r.Get("/", h.Home)
	return r
}

// Healthz answers liveness probes.
func (h *Web) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// Home renders the storefront page. A cache hit paints immediately and the
// remote document is refreshed in the background; a miss walks the gateway's
// fallback chain, which always yields something renderable.
func (h *Web) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	doc, ok := h.source.Cached(h.storeID)
	if ok {
		go h.refresh()
	} else {
		loaded, err := h.source.Load(ctx, h.storeID)
		if err != nil {
			logger.Error("layout load failed", zap.Error(err))
			http.Error(w, "服務暫時無法使用", http.StatusServiceUnavailable)
			return
		}
		doc = loaded
	}

	sections, err := h.renderer.Render(ctx, doc)
	if err != nil {
		logger.Error("render failed", zap.Error(err))
		http.Error(w, "服務暫時無法使用", http.StatusServiceUnavailable)
		return
	}

	data := struct {
		Title     string
		GlobalCSS template.CSS
		Sections  template.HTML
		Footer    template.HTML
	}{
		Title:     "Seorin Market",
		GlobalCSS: h.renderer.GlobalStyleCSS(doc.Global),
		Sections:  sections,
		Footer:    h.renderer.RenderFooter(doc.Footer),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		logger.Error("page template failed", zap.Error(err))
	}
}

// refresh re-reads the remote document so the next cache probe is current.
func (h *Web) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if _, err := h.source.Load(ctx, h.storeID); err != nil {
		h.logger.Debug("background layout refresh failed", zap.Error(err))
	}
}
