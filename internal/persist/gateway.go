package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vvstudiocode/korea-sub000/internal/layout"
)

// Store is the persistence gateway for layout documents: a primary layout
// endpoint, a secondary settings-store fallback, a packaged default, and a
// local cache file for instant paint. Reads walk the chain until something
// yields a document; writes try primary then fallback and only then fail.
type Store struct {
	baseURL     string
	fallbackURL string
	storePath   string
	client      *http.Client
	logger      *zap.Logger
	cache       *fileCache
	defaults    layout.Document
}

// StoreOption customises gateway construction.
type StoreOption func(*Store)

// WithFallbackURL points the gateway at the secondary settings store.
func WithFallbackURL(u string) StoreOption {
	return func(s *Store) { s.fallbackURL = u }
}

// WithCacheDir enables the local cache file under dir.
func WithCacheDir(dir string) StoreOption {
	return func(s *Store) { s.cache = newFileCache(dir) }
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) StoreOption {
	return func(s *Store) { s.client = client }
}

// WithLogger attaches a logger; absent one, the gateway is silent.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// NewStore builds the gateway over the primary layout endpoint.
func NewStore(baseURL string, opts ...StoreOption) (*Store, error) {
	defaults, err := DefaultDocument()
	if err != nil {
		return nil, err
	}
	s := &Store{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   zap.NewNop(),
		defaults: defaults,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load fetches the document for the store: primary endpoint, then the
// settings fallback, then the packaged default. It never returns an empty
// document; the error is non-nil only when even the default failed to
// produce one, which cannot happen after construction. A successful remote
// read refreshes the local cache.
func (s *Store) Load(ctx context.Context, storeID string) (layout.Document, error) {
	doc, err := s.fetch(ctx, s.layoutURL(storeID))
	if err == nil {
		s.cacheWrite(storeID, doc)
		return doc, nil
	}
	s.logger.Warn("layout store read failed, trying fallback",
		zap.String("store_id", storeID), zap.Error(err))

	if s.fallbackURL != "" {
		doc, fbErr := s.fetch(ctx, s.settingsURL(storeID))
		if fbErr == nil {
			s.cacheWrite(storeID, doc)
			return doc, nil
		}
		s.logger.Warn("settings fallback read failed",
			zap.String("store_id", storeID), zap.Error(fbErr))
	}

	return s.defaults.Clone(), nil
}

// Cached returns the local cache copy synchronously, for instant paint. The
// caller follows up with Load and swaps the result in.
func (s *Store) Cached(storeID string) (layout.Document, bool) {
	if s.cache == nil {
		return layout.Document{}, false
	}
	doc, ok, err := s.cache.read(storeID)
	if err != nil {
		// A malformed cache file is treated as absent.
		s.logger.Debug("layout cache unreadable",
			zap.String("store_id", storeID), zap.Error(err))
		return layout.Document{}, false
	}
	return doc, ok
}

// Save writes the document to the primary endpoint; if that fails, the
// fallback settings store receives the reduced sections-only form. The
// operator sees an error only when both channels fail. A successful save
// refreshes the local cache.
func (s *Store) Save(ctx context.Context, storeID string, doc layout.Document) error {
	payload, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	primaryErr := s.post(ctx, s.layoutURL(storeID), payload)
	if primaryErr == nil {
		s.cacheWrite(storeID, doc)
		return nil
	}
	s.logger.Warn("layout store write failed, trying fallback",
		zap.String("store_id", storeID), zap.Error(primaryErr))

	if s.fallbackURL == "" {
		return primaryErr
	}

	reduced, err := json.Marshal(struct {
		Sections []layout.Section `json:"sections"`
	}{Sections: doc.Sections})
	if err != nil {
		return fmt.Errorf("encode reduced layout: %w", err)
	}
	if fbErr := s.post(ctx, s.settingsURL(storeID), reduced); fbErr != nil {
		return fmt.Errorf("primary: %w (fallback: %v)", primaryErr, fbErr)
	}
	s.cacheWrite(storeID, doc)
	return nil
}

func (s *Store) layoutURL(storeID string) string {
	return withStore(s.baseURL+"/layout", storeID)
}

func (s *Store) settingsURL(storeID string) string {
	return withStore(s.fallbackURL+"/settings", storeID)
}

func withStore(endpoint, storeID string) string {
	if storeID == "" {
		return endpoint
	}
	return endpoint + "?store=" + url.QueryEscape(storeID)
}

func (s *Store) fetch(ctx context.Context, endpoint string) (layout.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return layout.Document{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return layout.Document{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return layout.Document{}, fmt.Errorf("layout fetch: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return layout.Document{}, err
	}
	return layout.Decode(body)
}

func (s *Store) post(ctx context.Context, endpoint string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("layout save: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (s *Store) cacheWrite(storeID string, doc layout.Document) {
	if s.cache == nil {
		return
	}
	if err := s.cache.write(storeID, doc); err != nil {
		s.logger.Debug("layout cache write failed",
			zap.String("store_id", storeID), zap.Error(err))
	}
}
