package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vvstudiocode/korea-sub000/internal/builder"
	"github.com/vvstudiocode/korea-sub000/internal/catalog"
	"github.com/vvstudiocode/korea-sub000/internal/form"
	"github.com/vvstudiocode/korea-sub000/internal/layout"
	"github.com/vvstudiocode/korea-sub000/internal/middleware"
	"github.com/vvstudiocode/korea-sub000/internal/platform/httpx"
	"github.com/vvstudiocode/korea-sub000/internal/platform/observability"
	"github.com/vvstudiocode/korea-sub000/internal/render"
)

// Admin serves the page builder.
type Admin struct {
	sessions *builder.Sessions
	renderer *render.Renderer
	provider catalog.Provider
	storeID  string
	logger   *zap.Logger
}

// NewAdmin builds the builder handler set.
func NewAdmin(sessions *builder.Sessions, renderer *render.Renderer, provider catalog.Provider, storeID string, logger *zap.Logger) *Admin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Admin{
		sessions: sessions,
		renderer: renderer,
		provider: provider,
		storeID:  storeID,
		logger:   logger,
	}
}

// Router assembles the builder routes.
func (h *Admin) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(observability.RequestLogger(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.HTMX())

	r.Get("/healthz", healthz)
	r.Handle("/static/*", StaticHandler())

	r.Route("/builder", func(r chi.Router) {
		r.Get("/", h.BuilderPage)

		// Everything below is an htmx fragment; direct navigation gets a 404.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireHTMX())

			r.Get("/preview", h.Preview)
			r.Get("/picker", h.Picker)
			r.Post("/save", h.Save)

			r.Post("/sections", h.AddSection)
			r.Route("/sections/{id}", func(r chi.Router) {
				r.Delete("/", h.RemoveSection)
				r.Patch("/", h.UpdateSection)
				r.Post("/move", h.MoveSection)
				r.Post("/select", h.SelectSection)
				r.Post("/products", h.SetProducts)
				r.Get("/variants", h.Variants)
			})

			r.Post("/footer/select", h.SelectFooter)
			r.Patch("/footer", h.UpdateFooter)
			r.Post("/footer/notices", h.AddNotice)
			r.Post("/global/select", h.SelectGlobal)
			r.Patch("/global", h.UpdateGlobal)
		})
	})
	return r
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (h *Admin) session(w http.ResponseWriter, r *http.Request) (*builder.Controller, bool) {
	ctrl, err := h.sessions.Get(r.Context(), h.storeID)
	if err != nil {
		httpx.WriteError(r.Context(), w,
			httpx.NewError("layout_unavailable", "無法載入版面", http.StatusBadGateway))
		return nil, false
	}
	return ctrl, true
}

// writeBuilderError maps controller sentinels onto the JSON envelope.
func writeBuilderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, builder.ErrReadOnly):
		httpx.WriteError(r.Context(), w,
			httpx.NewError("read_only", "目前為檢視模式，無法編輯版面", http.StatusForbidden))
	case errors.Is(err, builder.ErrNotFound):
		httpx.WriteError(r.Context(), w,
			httpx.NewError("section_not_found", "找不到指定的區塊", http.StatusNotFound))
	case errors.Is(err, form.ErrUnknownField):
		httpx.WriteError(r.Context(), w,
			httpx.NewError("unknown_field", "未知的欄位", http.StatusBadRequest))
	default:
		httpx.WriteError(r.Context(), w,
			httpx.NewError("internal", "操作失敗", http.StatusInternalServerError))
	}
}

// triggerEvents sets the HX-Trigger header from event name to payload.
func triggerEvents(w http.ResponseWriter, events map[string]any) {
	payload, err := json.Marshal(events)
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(payload))
}

// BuilderPage renders the full builder shell.
func (h *Admin) BuilderPage(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	doc := ctrl.Document()
	selection := ctrl.Selection()

	preview, err := previewFragment(r.Context(), h.renderer, doc)
	if err != nil {
		h.logger.Error("preview render failed", zap.Error(err))
		httpx.WriteError(r.Context(), w, httpx.NewError("render_failed", "預覽產生失敗", http.StatusInternalServerError))
		return
	}

	data := struct {
		ReadOnly    bool
		Palette     template.HTML
		SectionList template.HTML
		EditPanel   template.HTML
		Preview     template.HTML
	}{
		ReadOnly:    ctrl.ReadOnly(),
		Palette:     paletteFragment(),
		SectionList: sectionListFragment(doc, selection),
		EditPanel:   editPanelFragment(doc, selection, categoryNames(r.Context(), h.provider)),
		Preview:     preview,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := builderTemplate.Execute(w, data); err != nil {
		h.logger.Error("builder template failed", zap.Error(err))
	}
}

// Preview returns the full preview fragment. The preview container listens
// for the layout-changed event and calls this.
func (h *Admin) Preview(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	fragment, err := previewFragment(r.Context(), h.renderer, ctrl.Document())
	if err != nil {
		h.logger.Error("preview render failed", zap.Error(err))
		httpx.WriteError(r.Context(), w, httpx.NewError("render_failed", "預覽產生失敗", http.StatusInternalServerError))
		return
	}
	writeFragment(w, string(fragment))
}

// AddSection appends a default section of the posted type and selects it.
func (h *Admin) AddSection(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	t := layout.SectionType(r.FormValue("type"))
	if !layout.Known(t) {
		httpx.WriteError(r.Context(), w,
			httpx.NewError("unknown_type", "未知的區塊類型", http.StatusBadRequest))
		return
	}
	if _, err := ctrl.AddSection(t); err != nil {
		writeBuilderError(w, r, err)
		return
	}
	h.respondStructural(w, r, ctrl)
}

// RemoveSection deletes a section; the client guards it with hx-confirm.
func (h *Admin) RemoveSection(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := ctrl.RemoveSection(chi.URLParam(r, "id")); err != nil {
		writeBuilderError(w, r, err)
		return
	}
	h.respondStructural(w, r, ctrl)
}

// MoveSection reinserts a section at the posted index.
func (h *Admin) MoveSection(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	to, err := strconv.Atoi(r.FormValue("to"))
	if err != nil {
		httpx.WriteError(r.Context(), w,
			httpx.NewError("bad_target", "無效的目標位置", http.StatusBadRequest))
		return
	}
	if err := ctrl.Move(chi.URLParam(r, "id"), to); err != nil {
		writeBuilderError(w, r, err)
		return
	}
	h.respondStructural(w, r, ctrl)
}

// SelectSection makes a section the edit target and returns its form.
func (h *Admin) SelectSection(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := ctrl.Select(chi.URLParam(r, "id")); err != nil {
		writeBuilderError(w, r, err)
		return
	}
	h.respondEditPanel(w, r, ctrl)
}

// SelectFooter switches the edit target to the footer.
func (h *Admin) SelectFooter(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	ctrl.SelectFooter()
	h.respondEditPanel(w, r, ctrl)
}

// SelectGlobal switches the edit target to the global style.
func (h *Admin) SelectGlobal(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	ctrl.SelectGlobal()
	h.respondEditPanel(w, r, ctrl)
}

// UpdateSection applies the posted field values to a section. Plain value
// edits swap only that section's preview block out-of-band; structural edits
// raise layout-changed so the whole preview refreshes.
func (h *Admin) UpdateSection(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("bad_form", "無法解析表單", http.StatusBadRequest))
		return
	}

	structural := false
	for name, values := range r.PostForm {
		if len(values) == 0 {
			continue
		}
		s, err := ctrl.UpdateField(id, name, values[len(values)-1])
		if err != nil {
			writeBuilderError(w, r, err)
			return
		}
		structural = structural || s
	}

	if structural {
		h.respondStructural(w, r, ctrl)
		return
	}

	section, found := ctrl.Section(id)
	if !found {
		writeBuilderError(w, r, builder.ErrNotFound)
		return
	}
	fragment, err := h.renderer.RenderSection(r.Context(), section)
	if err != nil {
		h.logger.Error("section render failed", zap.Error(err))
		httpx.WriteError(r.Context(), w, httpx.NewError("render_failed", "預覽產生失敗", http.StatusInternalServerError))
		return
	}
	writeFragment(w, oob("preview-"+id, fragment))
}

// UpdateFooter applies posted footer fields and refreshes the preview's
// footer block.
func (h *Admin) UpdateFooter(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("bad_form", "無法解析表單", http.StatusBadRequest))
		return
	}
	for name, values := range r.PostForm {
		if len(values) == 0 {
			continue
		}
		if err := ctrl.UpdateFooter(name, values[len(values)-1]); err != nil {
			writeBuilderError(w, r, err)
			return
		}
	}
	doc := ctrl.Document()
	writeFragment(w, oob("preview-footer", h.renderer.RenderFooter(doc.Footer)))
}

// AddNotice appends a footer notice and re-renders the footer form.
func (h *Admin) AddNotice(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := ctrl.AddNotice(); err != nil {
		writeBuilderError(w, r, err)
		return
	}
	ctrl.SelectFooter()
	h.respondEditPanel(w, r, ctrl)
}

// UpdateGlobal applies posted global style fields. Editable even in
// read-only sessions.
func (h *Admin) UpdateGlobal(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("bad_form", "無法解析表單", http.StatusBadRequest))
		return
	}
	for name, values := range r.PostForm {
		if len(values) == 0 {
			continue
		}
		if err := ctrl.UpdateGlobal(name, values[len(values)-1]); err != nil {
			writeBuilderError(w, r, err)
			return
		}
	}
	triggerEvents(w, map[string]any{"layout-changed": true})
	w.WriteHeader(http.StatusNoContent)
}

// Picker serves the product picker modal for a manual-source section.
func (h *Admin) Picker(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	sectionID := r.URL.Query().Get("section")
	section, found := ctrl.Section(sectionID)
	if !found {
		writeBuilderError(w, r, builder.ErrNotFound)
		return
	}

	var products []catalog.Product
	if h.provider != nil {
		loaded, err := h.provider.Products(r.Context())
		if err != nil {
			h.logger.Warn("catalog unavailable for picker", zap.Error(err))
		} else {
			products = loaded
		}
	}

	query := r.URL.Query().Get("q")
	selected := section.ProductIDs
	if raw := r.URL.Query().Get("productIds"); raw != "" {
		// A search keystroke re-renders the list mid-selection; keep the
		// operator's in-progress picks.
		selected = form.ParsePickedIDs(raw)
	}
	writeFragment(w, string(form.RenderPicker(sectionID, form.FilterProducts(products, query), query, selected)))
}

// SetProducts commits the picker selection, in click order.
func (h *Admin) SetProducts(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	ids := form.ParsePickedIDs(r.FormValue("productIds"))
	if err := ctrl.SetProductIDs(id, ids); err != nil {
		writeBuilderError(w, r, err)
		return
	}

	doc := ctrl.Document()
	selection := ctrl.Selection()
	triggerEvents(w, map[string]any{"layout-changed": true, "picker-close": true})
	writeFragment(w,
		oob("edit-panel", editPanelFragment(doc, selection, categoryNames(r.Context(), h.provider))))
}

// Variants returns the variant table for a product, recomputed from its
// current options.
func (h *Admin) Variants(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("product")
	if h.provider == nil || productID == "" {
		writeFragment(w, "")
		return
	}
	products, err := h.provider.Products(r.Context())
	if err != nil {
		h.logger.Warn("catalog unavailable for variants", zap.Error(err))
		writeFragment(w, "")
		return
	}
	for _, p := range products {
		if p.ID == productID {
			refreshURL := fmt.Sprintf("/builder/sections/%s/variants?product=%s", chi.URLParam(r, "id"), p.ID)
			writeFragment(w, string(form.RenderVariantTable(p, refreshURL)))
			return
		}
	}
	writeFragment(w, "")
}

// Save persists the working document through the gateway and reports the
// outcome as a toast.
func (h *Admin) Save(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	saved, err := ctrl.Save(r.Context())
	if err != nil {
		h.logger.Error("layout save failed", zap.Error(err))
		triggerEvents(w, map[string]any{"toast": "儲存失敗，請稍後再試"})
		httpx.WriteError(r.Context(), w,
			httpx.NewError("save_failed", "儲存失敗", http.StatusBadGateway))
		return
	}
	triggerEvents(w, map[string]any{"toast": fmt.Sprintf("已儲存（版本 %d）", saved.Version)})
	w.WriteHeader(http.StatusNoContent)
}

// respondStructural answers a structure-changing operation: the section list
// and edit panel swap out-of-band, and layout-changed triggers a full
// preview refresh.
func (h *Admin) respondStructural(w http.ResponseWriter, r *http.Request, ctrl *builder.Controller) {
	doc := ctrl.Document()
	selection := ctrl.Selection()
	triggerEvents(w, map[string]any{"layout-changed": true})
	writeFragment(w,
		oob("section-list-box", sectionListFragment(doc, selection))+
			oob("edit-panel", editPanelFragment(doc, selection, categoryNames(r.Context(), h.provider))))
}

func (h *Admin) respondEditPanel(w http.ResponseWriter, r *http.Request, ctrl *builder.Controller) {
	doc := ctrl.Document()
	selection := ctrl.Selection()
	writeFragment(w, string(editPanelFragment(doc, selection, categoryNames(r.Context(), h.provider)))+
		oob("section-list-box", sectionListFragment(doc, selection)))
}

func writeFragment(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(body))
}
