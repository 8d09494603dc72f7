package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dharsanguruparan/dbzmanager/internal/logger"
)

// PublicPrefix is the route under which stored assets are served.
const PublicPrefix = "/uploads/"

// Assets is the upload asset manager. It names stored files, maps them to
// public URLs under baseURL and back, and cleans them up on a best-effort
// basis.
type Assets struct {
	backend Backend
	baseURL string
	log     *logger.Logger
	now     func() time.Time
}

// NewAssets builds an asset manager. baseURL is the public origin of the API,
// e.g. "https://api.example.com".
func NewAssets(backend Backend, baseURL string, log *logger.Logger) *Assets {
	return &Assets{
		backend: backend,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.With("component", "assets"),
		now:     time.Now,
	}
}

// Store writes r under a fresh name derived from the current time and the
// extension of originalName, and returns the public URL.
func (a *Assets) Store(ctx context.Context, r io.Reader, originalName string) (string, error) {
	name := a.newName(originalName)
	if err := a.backend.Put(ctx, name, r, -1); err != nil {
		return "", fmt.Errorf("store asset: %w", err)
	}
	a.log.Debug("asset stored", "name", name, "original", originalName)
	return a.URL(name), nil
}

func (a *Assets) newName(originalName string) string {
	ext := filepath.Ext(filepath.Base(filepath.ToSlash(originalName)))
	if strings.ContainsAny(ext, `/\?#% `) {
		ext = ""
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s%s", a.now().UnixMilli(), suffix, ext)
}

// URL returns the public URL of a stored name.
func (a *Assets) URL(name string) string {
	return a.baseURL + PublicPrefix + url.PathEscape(name)
}

// DownloadLink returns the forced-download link for a stored asset URL via
// route (e.g. "/get-inquiries"). It returns nil when fileURL is empty.
func (a *Assets) DownloadLink(route, fileURL string) *string {
	if fileURL == "" {
		return nil
	}
	name, err := NameFromURL(fileURL)
	if err != nil {
		return nil
	}
	link := a.baseURL + route + "?download=" + url.QueryEscape(name)
	return &link
}

// Remove deletes the asset referenced by fileURL. Missing files are ignored
// and failures are logged, never returned: callers proceed regardless.
func (a *Assets) Remove(ctx context.Context, fileURL string) {
	if fileURL == "" {
		return
	}
	name, err := NameFromURL(fileURL)
	if err != nil {
		a.log.Warn("skip removing asset with unusable url", "url", fileURL, "error", err)
		return
	}
	exists, err := a.backend.Exists(ctx, name)
	if err != nil {
		a.log.Error("check asset before removal", "name", name, "error", err)
		return
	}
	if !exists {
		return
	}
	if err := a.backend.Delete(ctx, name); err != nil && !errors.Is(err, ErrNotFound) {
		a.log.Error("remove asset", "name", name, "error", err)
		return
	}
	a.log.Info("asset removed", "name", name)
}

// Open resolves filename to its base name and opens it for streaming.
func (a *Assets) Open(ctx context.Context, filename string) (*Object, error) {
	name, err := SanitizeName(filename)
	if err != nil {
		return nil, err
	}
	return a.backend.Open(ctx, name)
}

// SanitizeName reduces filename to its last path element, rejecting names
// that could escape the content directory.
func SanitizeName(filename string) (string, error) {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		return "", ErrInvalidName
	}
	return name, nil
}

// NameFromURL extracts the stored name from a public asset URL by taking its
// last path segment.
func NameFromURL(fileURL string) (string, error) {
	p := fileURL
	if u, err := url.Parse(fileURL); err == nil {
		p = u.Path
	}
	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	return SanitizeName(p)
}
