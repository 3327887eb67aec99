package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeShrinksToWebP(t *testing.T) {
	out, err := Normalize(pngBytes(t, 4800, 1200))
	require.NoError(t, err)
	assert.Equal(t, "image/webp", out.ContentType)
	assert.Equal(t, "webp", out.Ext)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 2400, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
}

func TestNormalizeKeepsSmallImageSize(t *testing.T) {
	out, err := Normalize(pngBytes(t, 64, 32))
	require.NoError(t, err)
	cfg, err := webp.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestNormalizeGIFUntouched(t *testing.T) {
	var buf bytes.Buffer
	pal := image.NewPaletted(image.Rect(0, 0, 4, 4), []color.Color{color.Black, color.White})
	require.NoError(t, gif.Encode(&buf, pal, nil))

	out, err := Normalize(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/gif", out.ContentType)
	assert.Equal(t, buf.Bytes(), out.Data)
}

func TestNormalizeRejects(t *testing.T) {
	_, err := Normalize([]byte("plain text, not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = Normalize(make([]byte, MaxImageBytes+1))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestAllowedType(t *testing.T) {
	assert.True(t, AllowedType("image/png"))
	assert.True(t, AllowedType("image/jpeg; charset=binary"))
	assert.False(t, AllowedType("image/svg+xml"))
	assert.False(t, AllowedType("text/html"))
}

func TestObjectName(t *testing.T) {
	name := ObjectName("ships", "Deck Plan.PNG", "webp")
	assert.True(t, strings.HasPrefix(name, "ships/"))
	assert.True(t, strings.HasSuffix(name, "-deck-plan.webp"))

	assert.Regexp(t, `^general/[0-9a-f-]{36}\.gif$`, ObjectName("general", "", ".gif"))
	assert.True(t, ValidImageType("itinerary"))
	assert.False(t, ValidImageType("avatars"))
}

func TestBlockedIP(t *testing.T) {
	blocked := []string{"127.0.0.1", "10.1.2.3", "192.168.0.10", "172.16.5.5", "169.254.169.254", "0.0.0.0", "::1", "fe80::1", "fc00::1", "224.0.0.1"}
	for _, s := range blocked {
		assert.True(t, BlockedIP(net.ParseIP(s)), s)
	}
	for _, s := range []string{"8.8.8.8", "1.1.1.1", "2606:4700::1111"} {
		assert.False(t, BlockedIP(net.ParseIP(s)), s)
	}
}

func TestFetchRejectsPrivateAndBadScheme(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	f := NewFetcher()
	_, err := f.Fetch(context.Background(), srv.URL+"/a.png")
	assert.ErrorIs(t, err, ErrBlockedHost)

	_, err = f.Fetch(context.Background(), "ftp://example.com/a.png")
	assert.ErrorIs(t, err, ErrBadURL)
	_, err = f.Fetch(context.Background(), "file:///etc/passwd")
	assert.ErrorIs(t, err, ErrBadURL)
}

func TestFetchDownloads(t *testing.T) {
	img := pngBytes(t, 10, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(img)
		case "/page":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher()
	f.AllowPrivate = true

	data, err := f.Fetch(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, img, data)

	_, err = f.Fetch(context.Background(), srv.URL+"/page")
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestNewWithoutCredentials(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(context.Background(), config.StorageConfig{Provider: "cloudinary"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(context.Background(), config.StorageConfig{Provider: "dropbox"})
	assert.Error(t, err)
}

func TestSupabasePut(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotAuth, gotType = r.URL.Path, r.Header.Get("Authorization"), r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewSupabase(config.StorageConfig{SupabaseURL: srv.URL + "/", SupabaseServiceKey: "svc", SupabaseBucket: "media"})
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "trips/abc.webp", "image/webp", bytes.NewReader([]byte("img")))
	require.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/media/trips/abc.webp", gotPath)
	assert.Equal(t, "Bearer svc", gotAuth)
	assert.Equal(t, "image/webp", gotType)
	assert.Equal(t, []byte("img"), gotBody)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/media/trips/abc.webp", url)
}

func TestSupabasePutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	s, err := NewSupabase(config.StorageConfig{SupabaseURL: srv.URL, SupabaseServiceKey: "svc"})
	require.NoError(t, err)
	_, err = s.Put(context.Background(), "a.webp", "image/webp", bytes.NewReader(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket not found")
}

type fakeS3 struct{ in *s3.PutObjectInput }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	return &s3.PutObjectOutput{}, nil
}

func TestS3Put(t *testing.T) {
	fake := &fakeS3{}
	s := &S3Storage{Client: fake, Bucket: "assets", BaseURL: "https://cdn.example.com"}
	url, err := s.Put(context.Background(), "talent/x y.webp", "image/webp", bytes.NewReader([]byte("d")))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/talent/x%20y.webp", url)
	require.NotNil(t, fake.in)
	assert.Equal(t, "assets", *fake.in.Bucket)
	assert.Equal(t, "talent/x y.webp", *fake.in.Key)
	assert.Equal(t, "image/webp", *fake.in.ContentType)
}
