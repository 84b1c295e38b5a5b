package builder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vvstudiocode/korea-sub000/internal/layout"
)

// gatewayStub records saves and serves a fixed document.
type gatewayStub struct {
	doc     layout.Document
	saved   []layout.Document
	saveErr error
	loads   int
}

func (g *gatewayStub) Load(ctx context.Context, storeID string) (layout.Document, error) {
	g.loads++
	return g.doc.Clone(), nil
}

func (g *gatewayStub) Save(ctx context.Context, storeID string, doc layout.Document) error {
	if g.saveErr != nil {
		return g.saveErr
	}
	g.saved = append(g.saved, doc.Clone())
	return nil
}

func fourSections() layout.Document {
	return layout.Document{Sections: []layout.Section{
		{ID: "old0", Type: layout.SectionHero},
		{ID: "old1", Type: layout.SectionAnnouncement, Text: "hi"},
		{ID: "old2", Type: layout.SectionSingleImage},
		{ID: "old3", Type: layout.SectionTextCombination},
	}}
}

func sectionIDs(doc layout.Document) []string {
	ids := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestAddSectionAppendsAndSelects(t *testing.T) {
	t.Parallel()

	c := New(&gatewayStub{}, "main", layout.Document{})
	require.Equal(t, Selection{}, c.Selection())

	section, err := c.AddSection(layout.SectionHero)
	require.NoError(t, err)
	require.NotEmpty(t, section.ID)
	require.Equal(t, "新品上市", section.Title)

	require.Equal(t, Selection{Kind: SelectSection, SectionID: section.ID}, c.Selection())
	require.Len(t, c.Document().Sections, 1)
}

func TestRemoveSectionClearsSelection(t *testing.T) {
	t.Parallel()

	c := New(&gatewayStub{}, "main", fourSections())
	require.NoError(t, c.Select("old2"))

	require.NoError(t, c.RemoveSection("old2"))
	require.Equal(t, []string{"old0", "old1", "old3"}, sectionIDs(c.Document()))
	require.Equal(t, Selection{}, c.Selection())

	// Removing a non-selected section keeps the selection.
	require.NoError(t, c.Select("old1"))
	require.NoError(t, c.RemoveSection("old3"))
	require.Equal(t, Selection{Kind: SelectSection, SectionID: "old1"}, c.Selection())

	require.ErrorIs(t, c.RemoveSection("missing"), ErrNotFound)
}

func TestLegacyDocumentSectionsAddressableById(t *testing.T) {
	t.Parallel()

	// Documents saved by older clients carry no section ids. Normalising at
	// session open must leave every section individually addressable, so
	// id-based operations never land on the wrong section.
	legacy, err := layout.Decode([]byte(`{"sections":[{"type":"hero","title":"hi"},{"type":"announcement","text":"免運"},{"type":"single_image"}],"global":{}}`))
	require.NoError(t, err)

	c := New(&gatewayStub{}, "main", legacy)
	doc := c.Document()
	require.NoError(t, c.RemoveSection(doc.Sections[2].ID))

	remaining := c.Document()
	require.Len(t, remaining.Sections, 2)
	require.Equal(t, layout.SectionHero, remaining.Sections[0].Type)
	require.Equal(t, layout.SectionAnnouncement, remaining.Sections[1].Type)
}

func TestMoveSplices(t *testing.T) {
	t.Parallel()

	c := New(&gatewayStub{}, "main", fourSections())

	// Moving the first section to index 2 shifts the two it passed over.
	require.NoError(t, c.Move("old0", 2))
	require.Equal(t, []string{"old1", "old2", "old0", "old3"}, sectionIDs(c.Document()))

	// Targets beyond the end clamp to the last slot.
	require.NoError(t, c.Move("old1", 99))
	require.Equal(t, []string{"old2", "old0", "old3", "old1"}, sectionIDs(c.Document()))

	require.NoError(t, c.Move("old1", -5))
	require.Equal(t, []string{"old1", "old2", "old0", "old3"}, sectionIDs(c.Document()))

	require.ErrorIs(t, c.Move("missing", 0), ErrNotFound)
}

func TestMoveKeepsSelectionById(t *testing.T) {
	t.Parallel()

	c := New(&gatewayStub{}, "main", fourSections())
	require.NoError(t, c.Select("old0"))
	require.NoError(t, c.Move("old0", 3))
	require.Equal(t, Selection{Kind: SelectSection, SectionID: "old0"}, c.Selection())
}

func TestUpdateFieldStructuralSignal(t *testing.T) {
	t.Parallel()

	c := New(&gatewayStub{}, "main", layout.Document{})
	section, err := c.AddSection(layout.SectionProducts)
	require.NoError(t, err)

	structural, err := c.UpdateField(section.ID, "title", "本週精選")
	require.NoError(t, err)
	require.False(t, structural)

	structural, err = c.UpdateField(section.ID, "sourceType", layout.SourceManual)
	require.NoError(t, err)
	require.True(t, structural)

	got, ok := c.Section(section.ID)
	require.True(t, ok)
	require.Equal(t, "本週精選", got.Title)
	require.NotNil(t, got.ProductIDs)
}

func TestSetProductIDsKeepsClickOrder(t *testing.T) {
	t.Parallel()

	c := New(&gatewayStub{}, "main", layout.Document{})
	section, err := c.AddSection(layout.SectionProductList)
	require.NoError(t, err)

	require.NoError(t, c.SetProductIDs(section.ID, []string{"p3", "p1", "p2"}))
	got, _ := c.Section(section.ID)
	require.Equal(t, layout.SourceManual, got.SourceType)
	require.Equal(t, []string{"p3", "p1", "p2"}, got.ProductIDs)
}

func TestFooterAndNotices(t *testing.T) {
	t.Parallel()

	c := New(&gatewayStub{}, "main", layout.Document{})

	require.NoError(t, c.AddNotice())
	require.NoError(t, c.UpdateFooter("noticeTitle.0", "退換貨須知"))
	require.NoError(t, c.UpdateFooter("copyright", "© 2026 Seorin"))

	doc := c.Document()
	require.NotNil(t, doc.Footer)
	require.Equal(t, "退換貨須知", doc.Footer.Notices[0].Title)
	require.Equal(t, "© 2026 Seorin", doc.Footer.Copyright)

	require.NoError(t, c.RemoveNotice(0))
	require.Empty(t, c.Document().Footer.Notices)
	require.ErrorIs(t, c.RemoveNotice(0), ErrNotFound)
}

func TestReadOnlyBlocksAllButGlobal(t *testing.T) {
	t.Parallel()

	c := New(&gatewayStub{}, "kol-1", fourSections(), WithReadOnly(true))

	_, err := c.AddSection(layout.SectionHero)
	require.ErrorIs(t, err, ErrReadOnly)
	require.ErrorIs(t, c.RemoveSection("old0"), ErrReadOnly)
	require.ErrorIs(t, c.Move("old0", 1), ErrReadOnly)
	_, err = c.UpdateField("old1", "text", "x")
	require.ErrorIs(t, err, ErrReadOnly)
	require.ErrorIs(t, c.UpdateFooter("copyright", "x"), ErrReadOnly)
	require.ErrorIs(t, c.SetProductIDs("old0", nil), ErrReadOnly)

	// Global style stays editable for sub-store operators.
	require.NoError(t, c.UpdateGlobal("backgroundColor", "#fafafa"))
	require.Equal(t, "#fafafa", c.Document().Global.BackgroundColor)
}

func TestSaveStampsOnlyOnSuccess(t *testing.T) {
	t.Parallel()

	gw := &gatewayStub{}
	c := New(gw, "main", fourSections())

	saved, err := c.Save(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, saved.Version)
	require.False(t, saved.SavedAt.IsZero())
	require.Len(t, gw.saved, 1)

	saved, err = c.Save(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, saved.Version)

	// A rejected save leaves the working copy unstamped, so the retry
	// carries the same version.
	gw.saveErr = errors.New("store unreachable")
	_, err = c.Save(context.Background())
	require.Error(t, err)
	require.Equal(t, 2, c.Document().Version)

	gw.saveErr = nil
	saved, err = c.Save(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, saved.Version)
}

func TestSessionsShareOneControllerPerStore(t *testing.T) {
	t.Parallel()

	gw := &gatewayStub{doc: fourSections()}
	sessions := NewSessions(gw, zap.NewNop(), false)

	a, err := sessions.Get(context.Background(), "main")
	require.NoError(t, err)
	b, err := sessions.Get(context.Background(), "main")
	require.NoError(t, err)
	require.Same(t, a, b)
	require.Equal(t, 1, gw.loads)

	other, err := sessions.Get(context.Background(), "kol-1")
	require.NoError(t, err)
	require.NotSame(t, a, other)
	require.Equal(t, 2, gw.loads)
}
