package builder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vvstudiocode/korea-sub000/internal/form"
	"github.com/vvstudiocode/korea-sub000/internal/layout"
)

var (
	// ErrReadOnly is returned by mutating operations when the session was
	// opened without edit rights. Global style stays editable regardless.
	ErrReadOnly = errors.New("builder: layout is read-only")

	// ErrNotFound is returned when an operation names a section id the
	// document does not contain.
	ErrNotFound = errors.New("builder: section not found")
)

// Gateway persists layout documents. Implemented by the persist package.
type Gateway interface {
	Load(ctx context.Context, storeID string) (layout.Document, error)
	Save(ctx context.Context, storeID string, doc layout.Document) error
}

// SelectionKind names what the edit panel is showing. The states are
// mutually exclusive; a fresh session starts with nothing selected.
type SelectionKind string

const (
	SelectNone    SelectionKind = ""
	SelectSection SelectionKind = "section"
	SelectFooter  SelectionKind = "footer"
	SelectGlobal  SelectionKind = "global"
)

// Selection is the controller's current edit target.
type Selection struct {
	Kind      SelectionKind
	SectionID string
}

// Controller owns one document for one editing session. HTTP handlers hit it
// concurrently, so every operation takes the lock. It never talks to the
// network except through Save.
type Controller struct {
	mu        sync.Mutex
	doc       layout.Document
	selection Selection
	readOnly  bool

	gateway Gateway
	storeID string
}

// Option customises controller construction.
type Option func(*Controller)

// WithReadOnly opens the session without section or footer edit rights.
// Sub-store operators still adjust global style through such a session.
func WithReadOnly(readOnly bool) Option {
	return func(c *Controller) { c.readOnly = readOnly }
}

// New wraps a loaded document in an editing session.
func New(gateway Gateway, storeID string, doc layout.Document, opts ...Option) *Controller {
	doc.Normalize()
	c := &Controller{
		doc:     doc,
		gateway: gateway,
		storeID: storeID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadOnly reports whether section and footer edits are blocked.
func (c *Controller) ReadOnly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readOnly
}

// Document returns a deep copy of the working document, safe to render
// while edits continue.
func (c *Controller) Document() layout.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Clone()
}

// Selection returns the current edit target.
func (c *Controller) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

// Section returns a copy of the section with the given id.
func (c *Controller) Section(id string) (layout.Section, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(id); i >= 0 {
		return c.doc.Sections[i], true
	}
	return layout.Section{}, false
}

// AddSection appends a registry default of the given type and selects it.
// The caller re-renders the whole preview.
func (c *Controller) AddSection(t layout.SectionType) (layout.Section, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnly {
		return layout.Section{}, ErrReadOnly
	}
	section := layout.NewSection(t)
	c.doc.Sections = append(c.doc.Sections, section)
	c.selection = Selection{Kind: SelectSection, SectionID: section.ID}
	return section, nil
}

// RemoveSection deletes the section with the given id. Removing the selected
// section clears the selection.
func (c *Controller) RemoveSection(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnly {
		return ErrReadOnly
	}
	i := c.index(id)
	if i < 0 {
		return ErrNotFound
	}
	c.doc.Sections = append(c.doc.Sections[:i], c.doc.Sections[i+1:]...)
	if c.selection.Kind == SelectSection && c.selection.SectionID == id {
		c.selection = Selection{}
	}
	return nil
}

// Move reinserts the section at the target index: remove first, then splice
// back in, so moving down lands exactly on the requested slot. The target is
// clamped to the list bounds. Selection follows the id, so no index
// bookkeeping is needed.
func (c *Controller) Move(id string, to int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnly {
		return ErrReadOnly
	}
	from := c.index(id)
	if from < 0 {
		return ErrNotFound
	}

	section := c.doc.Sections[from]
	rest := append(c.doc.Sections[:from], c.doc.Sections[from+1:]...)

	if to < 0 {
		to = 0
	}
	if to > len(rest) {
		to = len(rest)
	}
	rest = append(rest, layout.Section{})
	copy(rest[to+1:], rest[to:])
	rest[to] = section
	c.doc.Sections = rest
	return nil
}

// UpdateField writes one form field into a section. The structural result
// tells the handler whether the whole preview must re-render (source-type
// switches) or only the one section fragment.
func (c *Controller) UpdateField(id, name, value string) (structural bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnly {
		return false, ErrReadOnly
	}
	i := c.index(id)
	if i < 0 {
		return false, ErrNotFound
	}
	return form.ApplySection(&c.doc.Sections[i], name, value)
}

// SetProductIDs replaces a manual section's id list with the picker's
// click-ordered selection.
func (c *Controller) SetProductIDs(id string, productIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnly {
		return ErrReadOnly
	}
	i := c.index(id)
	if i < 0 {
		return ErrNotFound
	}
	ids := make([]string, len(productIDs))
	copy(ids, productIDs)
	c.doc.Sections[i].SourceType = layout.SourceManual
	c.doc.Sections[i].ProductIDs = ids
	return nil
}

// UpdateFooter writes one footer field, materialising the footer on first
// edit.
func (c *Controller) UpdateFooter(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnly {
		return ErrReadOnly
	}
	if c.doc.Footer == nil {
		c.doc.Footer = &layout.Footer{}
	}
	return form.ApplyFooter(c.doc.Footer, name, value)
}

// AddNotice appends an empty footer notice.
func (c *Controller) AddNotice() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnly {
		return ErrReadOnly
	}
	if c.doc.Footer == nil {
		c.doc.Footer = &layout.Footer{}
	}
	c.doc.Footer.Notices = append(c.doc.Footer.Notices, layout.Notice{Title: "購物須知"})
	return nil
}

// RemoveNotice deletes the notice at the given index.
func (c *Controller) RemoveNotice(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnly {
		return ErrReadOnly
	}
	if c.doc.Footer == nil || index < 0 || index >= len(c.doc.Footer.Notices) {
		return ErrNotFound
	}
	c.doc.Footer.Notices = append(c.doc.Footer.Notices[:index], c.doc.Footer.Notices[index+1:]...)
	return nil
}

// UpdateGlobal writes one global style field. Allowed even in read-only
// sessions: sub-stores own their page's look.
func (c *Controller) UpdateGlobal(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return form.ApplyGlobal(&c.doc.Global, name, value)
}

// Select makes the section with the given id the edit target.
func (c *Controller) Select(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index(id) < 0 {
		return ErrNotFound
	}
	c.selection = Selection{Kind: SelectSection, SectionID: id}
	return nil
}

// SelectFooter makes the footer the edit target.
func (c *Controller) SelectFooter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = Selection{Kind: SelectFooter}
}

// SelectGlobal makes the global style the edit target.
func (c *Controller) SelectGlobal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = Selection{Kind: SelectGlobal}
}

// ClearSelection returns to the nothing-selected state.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = Selection{}
}

// Save stamps the document and hands it to the gateway. The version bump and
// timestamp only stick when the gateway accepts the write; a failed save
// leaves the working document unstamped so retrying produces the same
// version.
func (c *Controller) Save(ctx context.Context) (layout.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stamped := c.doc.Clone()
	stamped.Version++
	stamped.SavedAt = time.Now().UTC()

	if err := c.gateway.Save(ctx, c.storeID, stamped); err != nil {
		return layout.Document{}, err
	}
	c.doc = stamped
	return stamped.Clone(), nil
}

// index must be called with the lock held.
func (c *Controller) index(id string) int {
	for i, s := range c.doc.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}
