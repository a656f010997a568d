package imagestore

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	clock := func() time.Time { return time.UnixMilli(1717000000123) }
	s, err := New(fs, "/images", "/setup-images", append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	return s, fs
}

func TestSave(t *testing.T) {
	s, fs := newTestStore(t)

	url, err := s.Save("My Desk.JPG", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/setup-images/1717000000123.jpg", url)

	data, err := afero.ReadFile(fs, "/images/1717000000123.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	url, err = s.Save("other.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "/setup-images/1717000000123.png", url)

	url, err = s.Save("again.jpg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "/setup-images/1717000000124.jpg", url, "name collision moves to the next millisecond")
}

func TestSaveTooLarge(t *testing.T) {
	s, fs := newTestStore(t, WithMaxBytes(4))

	_, err := s.Save("desk.png", bytes.NewReader([]byte("12345")))
	assert.ErrorIs(t, err, ErrTooLarge)

	exists, _ := afero.Exists(fs, "/images/1717000000123.png")
	assert.False(t, exists)

	_, err = s.Save("desk.png", bytes.NewReader([]byte("1234")))
	assert.NoError(t, err)
}

func TestSaveRejectsType(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Save("notes.txt", strings.NewReader("hi"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
	_, err = s.Save("noext", strings.NewReader("hi"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestHandler(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Save("desk.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.StripPrefix("/setup-images", s.Handler()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/setup-images/1717000000123.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
