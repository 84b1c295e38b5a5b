package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vvstudiocode/korea-sub000/internal/builder"
	"github.com/vvstudiocode/korea-sub000/internal/catalog"
	"github.com/vvstudiocode/korea-sub000/internal/layout"
	"github.com/vvstudiocode/korea-sub000/internal/render"
)

type gatewayStub struct {
	doc     layout.Document
	cached  *layout.Document
	saveErr error
	saves   int
}

func (g *gatewayStub) Load(ctx context.Context, storeID string) (layout.Document, error) {
	return g.doc.Clone(), nil
}

func (g *gatewayStub) Cached(storeID string) (layout.Document, bool) {
	if g.cached == nil {
		return layout.Document{}, false
	}
	return g.cached.Clone(), true
}

func (g *gatewayStub) Save(ctx context.Context, storeID string, doc layout.Document) error {
	if g.saveErr != nil {
		return g.saveErr
	}
	g.saves++
	return nil
}

func storeDoc() layout.Document {
	doc := layout.Document{
		Sections: []layout.Section{
			{ID: "s1", Type: layout.SectionHero, Title: "歡迎"},
			{ID: "s2", Type: layout.SectionProducts, SourceType: layout.SourceCategory,
				Category: layout.CategoryAll, Limit: 4},
		},
		Footer: &layout.Footer{Copyright: "© Seorin"},
	}
	doc.Normalize()
	return doc
}

func newAdmin(t testing.TB, gw *gatewayStub, readOnly bool) *Admin {
	t.Helper()
	sessions := builder.NewSessions(gw, zap.NewNop(), readOnly)
	renderer := render.New(catalog.NewFake())
	return NewAdmin(sessions, renderer, catalog.NewFake(), "main", zap.NewNop())
}

func doForm(t testing.TB, router http.Handler, method, target string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if values != nil {
		body = strings.NewReader(values.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func parseHTML(t testing.TB, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestHomeRendersCachedLayout(t *testing.T) {
	t.Parallel()

	cached := storeDoc()
	gw := &gatewayStub{doc: storeDoc(), cached: &cached}
	web := NewWeb(gw, render.New(catalog.NewFake()), "main", zap.NewNop())

	rec := httptest.NewRecorder()
	web.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	dom := parseHTML(t, rec.Body.String())
	require.Equal(t, 2, dom.Find("section.page-section").Length())
	require.Equal(t, 1, dom.Find("footer.site-footer").Length())
	require.Contains(t, dom.Find("style").Text(), "--page-bg")
}

func TestHomeFallsBackToLoadOnCacheMiss(t *testing.T) {
	t.Parallel()

	gw := &gatewayStub{doc: storeDoc()}
	web := NewWeb(gw, render.New(catalog.NewFake()), "main", zap.NewNop())

	rec := httptest.NewRecorder()
	web.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "歡迎")
}

func TestBuilderPage(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t, &gatewayStub{doc: storeDoc()}, false)
	rec := httptest.NewRecorder()
	admin.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/builder/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	dom := parseHTML(t, rec.Body.String())
	require.Equal(t, 10, dom.Find(".palette button").Length(), "one palette entry per section type")
	require.Equal(t, 2, dom.Find(".section-item").Length())
	require.Equal(t, 2, dom.Find("#preview .page-section").Length())
	require.Equal(t, 1, dom.Find("#preview #preview-footer").Length())
}

func TestAddSectionRespondsWithFragmentsAndTrigger(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t, &gatewayStub{doc: storeDoc()}, false)
	router := admin.Router()

	rec := doForm(t, router, http.MethodPost, "/builder/sections", url.Values{"type": {"announcement"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var events map[string]any
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &events))
	require.Contains(t, events, "layout-changed")

	dom := parseHTML(t, rec.Body.String())
	require.Equal(t, 3, dom.Find(".section-item").Length())
	// The new section is selected, so its form arrives in the same response.
	require.Equal(t, 1, dom.Find(`#edit-panel input[name="text"]`).Length())
}

func TestAddSectionRejectsUnknownType(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t, &gatewayStub{doc: storeDoc()}, false)
	rec := doForm(t, admin.Router(), http.MethodPost, "/builder/sections", url.Values{"type": {"hologram"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMoveSectionSplices(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t, &gatewayStub{doc: storeDoc()}, false)
	router := admin.Router()

	rec := doForm(t, router, http.MethodPost, "/builder/sections/s1/move", url.Values{"to": {"1"}})
	require.Equal(t, http.StatusOK, rec.Code)

	dom := parseHTML(t, rec.Body.String())
	var ids []string
	dom.Find(".section-item").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("data-section-id")
		ids = append(ids, id)
	})
	require.Equal(t, []string{"s2", "s1"}, ids)
}

func TestRemoveSectionNotFound(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t, &gatewayStub{doc: storeDoc()}, false)
	req := httptest.NewRequest(http.MethodDelete, "/builder/sections/missing/", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	admin.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "section_not_found", payload["error"])
}

func TestFragmentRoutesRejectDirectNavigation(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t, &gatewayStub{doc: storeDoc()}, false)
	router := admin.Router()

	// Fragment URLs answer htmx only; a browser address-bar hit gets a 404.
	for _, target := range []string{"/builder/preview", "/builder/picker?section=s2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusNotFound, rec.Code, target)
	}

	// The builder page itself stays reachable.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/builder/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateFieldSwapsOneSection(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t, &gatewayStub{doc: storeDoc()}, false)
	rec := doForm(t, admin.Router(), http.MethodPatch, "/builder/sections/s1/", url.Values{"title": {"新標題"}})
	require.Equal(t, http.StatusOK, rec.Code)

	// Plain value edits swap one preview block out-of-band and do not
	// request a full preview refresh.
	require.Empty(t, rec.Header().Get("HX-Trigger"))
	dom := parseHTML(t, rec.Body.String())
	swap := dom.Find("#preview-s1")
	require.Equal(t, 1, swap.Length())
	oobAttr, _ := swap.Attr("hx-swap-oob")
	require.Equal(t, "innerHTML", oobAttr)
	require.Contains(t, swap.Text(), "新標題")
}

func TestUpdateFieldUncheckRoundTrip(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t, &gatewayStub{doc: storeDoc()}, false)
	router := admin.Router()

	// A fresh announcement defaults to scrolling on.
	rec := doForm(t, router, http.MethodPost, "/builder/sections", url.Values{"type": {"announcement"}})
	require.Equal(t, http.StatusOK, rec.Code)

	ctrl, err := admin.sessions.Get(context.Background(), "main")
	require.NoError(t, err)
	id := ctrl.Selection().SectionID
	section, ok := ctrl.Section(id)
	require.True(t, ok)
	require.True(t, section.Scrolling)

	// Unchecking the box posts an explicit false and must switch it off.
	rec = doForm(t, router, http.MethodPatch, "/builder/sections/"+id+"/", url.Values{"scrolling": {"false"}})
	require.Equal(t, http.StatusOK, rec.Code)

	section, ok = ctrl.Section(id)
	require.True(t, ok)
	require.False(t, section.Scrolling)
}

func TestUpdateFieldStructuralRefreshesEverything(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t, &gatewayStub{doc: storeDoc()}, false)
	rec := doForm(t, admin.Router(), http.MethodPatch, "/builder/sections/s2/",
		url.Values{"sourceType": {layout.SourceManual}})
	require.Equal(t, http.StatusOK, rec.Code)

	var events map[string]any
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &events))
	require.Contains(t, events, "layout-changed")
}

func TestReadOnlyModeForbidsMutationButAllowsGlobal(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t, &gatewayStub{doc: storeDoc()}, true)
	router := admin.Router()

	rec := doForm(t, router, http.MethodPost, "/builder/sections", url.Values{"type": {"hero"}})
	require.Equal(t, http.StatusForbidden, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "read_only", payload["error"])

	rec = doForm(t, router, http.MethodPatch, "/builder/sections/s1/", url.Values{"title": {"x"}})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doForm(t, router, http.MethodPatch, "/builder/global", url.Values{"backgroundColor": {"#fafafa"}})
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPickerFiltersAndKeepsSelection(t *testing.T) {
	t.Parallel()

	gw := &gatewayStub{doc: storeDoc()}
	admin := newAdmin(t, gw, false)
	router := admin.Router()

	// Switch s2 to manual so the picker has a home.
	rec := doForm(t, router, http.MethodPatch, "/builder/sections/s2/",
		url.Values{"sourceType": {layout.SourceManual}})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/builder/picker?section=s2&q=保濕&productIds=p5", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	dom := parseHTML(t, rec.Body.String())
	require.Equal(t, 1, dom.Find(".picker-item").Length(), "only the matching product remains")
	hidden, _ := dom.Find(`input[name="productIds"]`).Attr("value")
	require.Equal(t, "p5", hidden)
}

func TestSetProductsCommitsClickOrder(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t, &gatewayStub{doc: storeDoc()}, false)
	router := admin.Router()

	doForm(t, router, http.MethodPatch, "/builder/sections/s2/", url.Values{"sourceType": {layout.SourceManual}})
	rec := doForm(t, router, http.MethodPost, "/builder/sections/s2/products",
		url.Values{"productIds": {"p3,p1,p2"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var events map[string]any
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &events))
	require.Contains(t, events, "layout-changed")
	require.Contains(t, events, "picker-close")

	ctrl, err := admin.sessions.Get(context.Background(), "main")
	require.NoError(t, err)
	section, ok := ctrl.Section("s2")
	require.True(t, ok)
	require.Equal(t, []string{"p3", "p1", "p2"}, section.ProductIDs)
}

func TestVariantsFragment(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t, &gatewayStub{doc: storeDoc()}, false)
	req := httptest.NewRequest(http.MethodGet, "/builder/sections/s2/variants?product=p3", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	admin.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	dom := parseHTML(t, rec.Body.String())
	require.Equal(t, 4, dom.Find(".variant-row").Length())

	// A product without options yields an empty fragment.
	req = httptest.NewRequest(http.MethodGet, "/builder/sections/s2/variants?product=p1", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	admin.Router().ServeHTTP(rec, req)
	require.Empty(t, strings.TrimSpace(rec.Body.String()))
}

func TestSaveToastAndFailureEnvelope(t *testing.T) {
	t.Parallel()

	gw := &gatewayStub{doc: storeDoc()}
	admin := newAdmin(t, gw, false)
	router := admin.Router()

	rec := doForm(t, router, http.MethodPost, "/builder/save", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, 1, gw.saves)
	require.Contains(t, rec.Header().Get("HX-Trigger"), "toast")

	gw.saveErr = errors.New("store down")
	rec = doForm(t, router, http.MethodPost, "/builder/save", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "save_failed", payload["error"])
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t, &gatewayStub{doc: storeDoc()}, false)
	rec := httptest.NewRecorder()
	admin.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
