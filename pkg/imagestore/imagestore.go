// Package imagestore keeps uploaded setup images on an afero filesystem and
// serves them back.
package imagestore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// DefaultMaxBytes is the upload limit when none is configured.
const DefaultMaxBytes = 5 * 1024 * 1024

var (
	ErrTooLarge        = errors.New("image must be smaller than 5MB")
	ErrUnsupportedType = errors.New("unsupported image type")
)

var allowedExt = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"heic": "image/heic",
}

// Store writes images under a directory of fs. Stored names are
// "<unix millis>.<ext>".
type Store struct {
	fs           afero.Fs
	maxBytes     int64
	publicPrefix string
	now          func() time.Time
}

type Option func(*Store)

func WithMaxBytes(n int64) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a store rooted at dir on fs. Public URLs are publicPrefix
// followed by the stored name.
func New(fs afero.Fs, dir, publicPrefix string, opts ...Option) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating image dir %s: %w", dir, err)
	}
	if !strings.HasSuffix(publicPrefix, "/") {
		publicPrefix += "/"
	}
	s := &Store{
		fs:           afero.NewBasePathFs(fs, dir),
		maxBytes:     DefaultMaxBytes,
		publicPrefix: publicPrefix,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Ext returns the lower-cased extension of name if it is an allowed image type.
func Ext(name string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if _, ok := allowedExt[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, name)
	}
	return ext, nil
}

// Save stores the image read from r under a generated name and returns its
// public URL. originalName only supplies the extension.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	ext, err := Ext(originalName)
	if err != nil {
		return "", err
	}

	name := s.freeName(ext)
	f, err := s.fs.Create(name)
	if err != nil {
		return "", err
	}

	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		s.fs.Remove(name)
		return "", err
	}

	slog.Info("image stored", "name", name, "bytes", n)
	return s.publicPrefix + name, nil
}

func (s *Store) freeName(ext string) string {
	millis := s.now().UnixMilli()
	for {
		name := strconv.FormatInt(millis, 10) + "." + ext
		if ok, _ := afero.Exists(s.fs, name); !ok {
			return name
		}
		millis++
	}
}

// Handler serves stored images. Mount it under the public prefix with the
// prefix stripped.
func (s *Store) Handler() http.Handler {
	return http.FileServer(afero.NewHttpFs(s.fs))
}
