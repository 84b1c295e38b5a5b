package persist

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vvstudiocode/korea-sub000/internal/layout"
)

// fileCache keeps one JSON document per store id under a directory. It
// exists for instant paint: the last good document renders while the network
// read is in flight.
type fileCache struct {
	dir string
}

func newFileCache(dir string) *fileCache {
	return &fileCache{dir: dir}
}

func (c *fileCache) path(storeID string) string {
	name := storeID
	if name == "" {
		name = "default"
	}
	return filepath.Join(c.dir, name+".json")
}

func (c *fileCache) read(storeID string) (layout.Document, bool, error) {
	data, err := os.ReadFile(c.path(storeID))
	if errors.Is(err, fs.ErrNotExist) {
		return layout.Document{}, false, nil
	}
	if err != nil {
		return layout.Document{}, false, err
	}
	doc, err := layout.Decode(data)
	if err != nil {
		return layout.Document{}, false, err
	}
	return doc, true, nil
}

// write replaces the cache file via temp-and-rename so a crashed write never
// leaves a truncated document behind.
func (c *fileCache) write(storeID string, doc layout.Document) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	data, err := doc.Encode()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, ".layout-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path(storeID))
}
