package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCombinationsFirstDimensionMajor(t *testing.T) {
	t.Parallel()

	opts := Options{
		{Name: "顏色", Values: []string{"黑", "紅"}},
		{Name: "尺寸", Values: []string{"S", "M"}},
	}
	require.Equal(t, []string{"黑/S", "黑/M", "紅/S", "紅/M"}, Combinations(opts))
}

func TestCombinationsDegenerateInputs(t *testing.T) {
	t.Parallel()

	require.Nil(t, Combinations(nil))
	require.Nil(t, Combinations(Options{}))
	require.Nil(t, Combinations(Options{{Name: "顏色", Values: nil}}))

	single := Options{{Name: "容量", Values: []string{"30ml", "50ml", "100ml"}}}
	require.Equal(t, []string{"30ml", "50ml", "100ml"}, Combinations(single))
}

func TestReconcileVariants(t *testing.T) {
	t.Parallel()

	p := Product{
		Price: 590, Cost: 210, Stock: 9,
		Options: Options{
			{Name: "顏色", Values: []string{"黑", "紅"}},
			{Name: "尺寸", Values: []string{"S", "M"}},
		},
		Variants: []Variant{
			{Spec: "黑/S", Price: 620, Stock: 3, Image: "black-s.jpg"},
			{Spec: "黑/L", Price: 650, Stock: 2}, // stale: L is no longer a size
		},
	}

	got := ReconcileVariants(p)
	require.Len(t, got, 4)

	specs := make([]string, 0, len(got))
	for _, v := range got {
		specs = append(specs, v.Spec)
	}
	require.Equal(t, []string{"黑/S", "黑/M", "紅/S", "紅/M"}, specs)

	// Surviving combination keeps its edited values untouched.
	require.Equal(t, Variant{Spec: "黑/S", Price: 620, Stock: 3, Image: "black-s.jpg"}, got[0])
	// New combinations inherit the product's scalar defaults.
	require.Equal(t, Variant{Spec: "黑/M", Price: 590, Cost: 210, Stock: 9}, got[1])
}

func TestParseOptionsLenient(t *testing.T) {
	t.Parallel()

	t.Run("json object preserves key order", func(t *testing.T) {
		t.Parallel()
		opts := ParseOptions(`{"尺寸":["S","M"],"顏色":["黑","紅"]}`)
		require.Equal(t, Options{
			{Name: "尺寸", Values: []string{"S", "M"}},
			{Name: "顏色", Values: []string{"黑", "紅"}},
		}, opts)
	})

	t.Run("legacy semicolon form", func(t *testing.T) {
		t.Parallel()
		opts := ParseOptions("顏色:黑, 紅;尺寸:S,M")
		require.Equal(t, Options{
			{Name: "顏色", Values: []string{"黑", "紅"}},
			{Name: "尺寸", Values: []string{"S", "M"}},
		}, opts)
	})

	t.Run("malformed degrades to zero dimensions", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, ParseOptions(`{"顏色": not json`))
		require.Nil(t, ParseOptions("   "))
		require.Nil(t, ParseOptions(";;;:"))
	})
}

func TestOptionsJSONRoundTrip(t *testing.T) {
	t.Parallel()

	opts := Options{
		{Name: "顏色", Values: []string{"黑", "紅"}},
		{Name: "尺寸", Values: []string{"S", "M"}},
	}
	data, err := json.Marshal(opts)
	require.NoError(t, err)

	var decoded Options
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, opts, decoded)
}

func TestResolveManualPreservesIDOrderAndDropsMissing(t *testing.T) {
	t.Parallel()

	products := []Product{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}, {ID: "p4"}}

	got := ResolveManual(products, []string{"p3", "p1", "p2"})
	require.Equal(t, []string{"p3", "p1", "p2"}, productIDs(got))

	// p3 retired from the catalog: dropped silently, order preserved.
	got = ResolveManual([]Product{{ID: "p1"}, {ID: "p2"}, {ID: "p4"}}, []string{"p3", "p1", "p2"})
	require.Equal(t, []string{"p1", "p2"}, productIDs(got))
}

func TestResolveCategorySentinelAndLimit(t *testing.T) {
	t.Parallel()

	products := []Product{
		{ID: "p1", Category: "食品"},
		{ID: "p2", Category: "服飾"},
		{ID: "p3", Category: "食品"},
		{ID: "p4", Category: "美妝保養"},
		{ID: "p5", Category: "食品"},
	}

	got := ResolveCategory(products, CategoryAll, 2)
	require.Equal(t, []string{"p1", "p2"}, productIDs(got), "sentinel means no filter, catalog order, truncated to limit")

	got = ResolveCategory(products, "食品", 0)
	require.Equal(t, []string{"p1", "p3", "p5"}, productIDs(got))

	got = ResolveCategory(products, "無此分類", 10)
	require.Empty(t, got)
}

func TestClientFetchesAndCaches(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		require.Equal(t, "/products", r.URL.Path)
		require.Equal(t, "kol-7", r.URL.Query().Get("store"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"p1","name":"面膜","price":390,"category":"美妝保養","stock":10,
			 "options":"{\"顏色\":[\"黑\",\"紅\"]}"},
			{"id":"p2","name":"上衣","price":590,"category":"服飾","stock":5,
			 "options":{"尺寸":["S","M"]}}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithStoreID("kol-7"))

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, Options{{Name: "顏色", Values: []string{"黑", "紅"}}}, products[0].Options)
	require.Equal(t, Options{{Name: "尺寸", Values: []string{"S", "M"}}}, products[1].Options)

	_, err = c.Products(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, hits, "second call within TTL must hit the cache")
}

func TestClientErrorSurfaces(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Products(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestPrimaryImage(t *testing.T) {
	t.Parallel()

	p := Product{Image: "https://cdn.example.com/a.jpg, https://cdn.example.com/b.jpg"}
	require.Equal(t, "https://cdn.example.com/a.jpg", p.PrimaryImage())
	require.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, p.Images())

	require.Equal(t, "", Product{}.PrimaryImage())
}

func productIDs(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
