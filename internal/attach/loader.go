// ABOUTME: Attachment loader for local files and remote images
// ABOUTME: Downloads URLs into a temp cache and converts images to data URLs
package attach

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxImageBytes bounds a single attachment
const MaxImageBytes = 20 << 20

// Loader resolves attachment references to images
type Loader struct {
	cacheDir string
	client   *http.Client
}

// NewLoader creates a loader caching downloads under the temp directory
func NewLoader() (*Loader, error) {
	return NewLoaderWithCache(filepath.Join(os.TempDir(), "couch-attachments"))
}

// NewLoaderWithCache creates a loader caching downloads in cacheDir
func NewLoaderWithCache(cacheDir string) (*Loader, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Loader{
		cacheDir: cacheDir,
		client:   &http.Client{},
	}, nil
}

// Load reads src, an http(s) URL or a file path, as an image
func (l *Loader) Load(ctx context.Context, src string) (Image, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return Image{}, fmt.Errorf("no attachment given")
	}

	path := expandHome(src)
	if isURL(src) {
		var err error
		path, err = l.download(ctx, src)
		if err != nil {
			return Image{}, err
		}
	}

	data, err := readLimited(path)
	if err != nil {
		return Image{}, err
	}
	return NewImage(data, src)
}

// download fetches url into the cache and returns the cached path
func (l *Loader) download(ctx context.Context, url string) (string, error) {
	// Create a cache key from URL hash
	hash := sha256.Sum256([]byte(url))
	filename := fmt.Sprintf("%x%s", hash[:8], getExtension(url))
	cachePath := filepath.Join(l.cacheDir, filename)

	if _, err := os.Stat(cachePath); err == nil {
		log.Printf("Attachment cache hit: %s", cachePath)
		return cachePath, nil
	}

	log.Printf("Downloading attachment: %s", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid attachment URL: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("attachment download failed: HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(cachePath)
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(resp.Body, MaxImageBytes+1)); err != nil {
		os.Remove(cachePath)
		return "", fmt.Errorf("failed to save attachment: %w", err)
	}

	log.Printf("Attachment saved: %s", cachePath)
	return cachePath, nil
}

// Cleanup removes cached downloads
func (l *Loader) Cleanup() error {
	return os.RemoveAll(l.cacheDir)
}

func readLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open attachment: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("attachment exceeds %d MB", MaxImageBytes>>20)
	}
	return data, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// getExtension extracts file extension from URL
func getExtension(url string) string {
	// Remove query string
	url = strings.Split(url, "?")[0]

	ext := filepath.Ext(url)
	if ext == "" || len(ext) > 5 {
		ext = ".img"
	}
	return ext
}
