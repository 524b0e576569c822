package imagecache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoCacheDir is returned by New when no directory is configured.
	ErrNoCacheDir = errors.New("image cache directory not configured")
	// ErrDownload marks failures that happened while retrieving the remote
	// image, as opposed to failures writing it to disk.
	ErrDownload = errors.New("image download failed")
)

// Downloader streams the resource at rawURL into w.
type Downloader func(ctx context.Context, rawURL string, w io.Writer) (int64, error)

// Cache stores one image per APOD date under a single directory.
type Cache struct {
	dir string
	log logrus.FieldLogger

	createTemp func(dir, pattern string) (*os.File, error)
}

// Stats summarizes the cache contents.
type Stats struct {
	Dir      string
	Files    int
	Bytes    int64
	Newest   time.Time
	Existing bool
}

const (
	defaultExt  = ".jpg"
	tempPattern = ".download-*"
	dateLayout  = "2006-01-02"
)

var knownExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// New returns a Cache rooted at dir. The directory is created lazily on the
// first write.
func New(dir string, log logrus.FieldLogger) (*Cache, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, ErrNoCacheDir
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Cache{dir: filepath.Clean(dir), log: log, createTemp: os.CreateTemp}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns where the image for date fetched from rawURL is stored.
func (c *Cache) Path(date time.Time, rawURL string) string {
	return filepath.Join(c.dir, date.Format(dateLayout)+extFromURL(rawURL))
}

// Fetch returns the local path of the image for date, downloading it with dl
// when it is not cached yet. Writes go through a temp file and a rename so a
// partial download never appears under the final name.
//
// Only failures on the download side are tagged ErrDownload. A failed write
// to the temp file is a disk error even when dl reports it.
func (c *Cache) Fetch(ctx context.Context, date time.Time, rawURL string, dl Downloader) (string, error) {
	target := c.Path(date, rawURL)
	entry := c.log.WithFields(logrus.Fields{
		"date": date.Format(dateLayout),
		"file": target,
	})

	if info, err := os.Stat(target); err == nil && info.Size() > 0 {
		entry.Debug("image cache hit")
		return target, nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := c.createTemp(c.dir, tempPattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	out := &fileWriter{f: tmp}
	n, dlErr := dl(ctx, rawURL, out)
	closeErr := tmp.Close()
	if out.err != nil {
		return "", fmt.Errorf("write temp file: %w", out.err)
	}
	if dlErr != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, dlErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("close temp file: %w", closeErr)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: empty response from %s", ErrDownload, rawURL)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	committed = true

	entry.WithField("bytes", n).Info("cached image")
	return target, nil
}

// fileWriter remembers the first write error so it can be told apart from
// errors on the read side of a download.
type fileWriter struct {
	f   *os.File
	err error
}

func (w *fileWriter) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	if err != nil && w.err == nil {
		w.err = err
	}
	return n, err
}

// Status reports the number and total size of cached images.
func (c *Cache) Status() (Stats, error) {
	stats := Stats{Dir: c.dir}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stats, nil
		}
		return stats, fmt.Errorf("read cache dir: %w", err)
	}
	stats.Existing = true
	for _, e := range entries {
		if !isImageEntry(e) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Files++
		stats.Bytes += info.Size()
		if info.ModTime().After(stats.Newest) {
			stats.Newest = info.ModTime()
		}
	}
	return stats, nil
}

// Clear removes every cached image and leftover temp file and returns how
// many images were deleted.
func (c *Cache) Clear() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read cache dir: %w", err)
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		temp := strings.HasPrefix(e.Name(), ".download-")
		if !temp && !isImageEntry(e) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		if !temp {
			removed++
		}
	}
	c.log.WithFields(logrus.Fields{"dir": c.dir, "removed": removed}).Info("cleared image cache")
	return removed, nil
}

func isImageEntry(e os.DirEntry) bool {
	if e.IsDir() {
		return false
	}
	name := e.Name()
	ext := strings.ToLower(filepath.Ext(name))
	if !knownExts[ext] {
		return false
	}
	_, err := time.Parse(dateLayout, strings.TrimSuffix(name, filepath.Ext(name)))
	return err == nil
}

func extFromURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return defaultExt
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if !knownExts[ext] {
		return defaultExt
	}
	return ext
}
