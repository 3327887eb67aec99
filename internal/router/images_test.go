package router

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
)

type memStore struct {
	keys  []string
	types []string
}

func (m *memStore) Put(_ context.Context, key, contentType string, body io.Reader) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	m.keys = append(m.keys, key)
	m.types = append(m.types, contentType)
	return "https://cdn.example.com/" + key, nil
}

type stubFetcher struct{ data []byte }

func (f stubFetcher) Fetch(context.Context, string) ([]byte, error) { return f.data, nil }

func multipartImage(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="pic.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func TestImageUpload(t *testing.T) {
	api := newTestAPI(t)
	store := &memStore{}
	api.h.Images.Store = store
	api.h.Images.Fetcher = stubFetcher{data: tinyPNG(t)}
	media := api.token(t, api.seedUser(t, "media", model.RoleMediaManager, true))
	viewer := api.token(t, api.seedUser(t, "viewer", model.RoleViewer, true))

	upload := func(token, imageType, contentType string, data []byte) *httptest.ResponseRecorder {
		body, ct := multipartImage(t, contentType, data)
		req := httptest.NewRequest(http.MethodPost, "/api/images/upload/"+imageType, body)
		req.Header.Set(echo.HeaderContentType, ct)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		api.e.ServeHTTP(rec, req)
		return rec
	}

	rec := upload(media, "ships", "image/png", tinyPNG(t))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	key := gjson.Get(rec.Body.String(), "key").String()
	assert.True(t, strings.HasPrefix(key, "ships/"))
	assert.True(t, strings.HasSuffix(key, "-pic.webp"))
	assert.Equal(t, "https://cdn.example.com/"+key, gjson.Get(rec.Body.String(), "url").String())
	assert.Equal(t, []string{"image/webp"}, store.types)

	assert.Equal(t, http.StatusForbidden, upload(viewer, "ships", "image/png", tinyPNG(t)).Code)
	assert.Equal(t, http.StatusBadRequest, upload(media, "avatars", "image/png", tinyPNG(t)).Code)
	assert.Equal(t, http.StatusUnsupportedMediaType, upload(media, "general", "image/svg+xml", []byte("<svg/>")).Code)
	assert.Equal(t, http.StatusUnsupportedMediaType, upload(media, "general", "image/png", []byte("not a png at all")).Code)

	dl := api.do(t, http.MethodPost, "/api/images/download-from-url", media, echo.Map{
		"url": "https://images.example.com/a.png", "imageType": "talent", "name": "headshot",
	})
	require.Equal(t, http.StatusCreated, dl.Code, dl.Body.String())
	assert.True(t, strings.HasPrefix(gjson.Get(dl.Body.String(), "key").String(), "talent/"))

	api.h.Images.Store = nil
	assert.Equal(t, http.StatusServiceUnavailable, upload(media, "ships", "image/png", tinyPNG(t)).Code)
}

func TestDownloadRejectsPrivateURL(t *testing.T) {
	api := newTestAPI(t)
	api.h.Images.Store = &memStore{}
	media := api.token(t, api.seedUser(t, "media", model.RoleMediaManager, true))

	for _, u := range []string{"http://127.0.0.1/x.png", "http://169.254.169.254/latest", "ftp://example.com/x.png"} {
		rec := api.do(t, http.MethodPost, "/api/images/download-from-url", media, echo.Map{"url": u, "imageType": "general"})
		assert.Equal(t, http.StatusBadRequest, rec.Code, u)
	}
}
