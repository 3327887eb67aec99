package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/storage"
	"github.com/labstack/echo/v4"
)

const uploadTimeout = 60 * time.Second

// ImageFetcher downloads a remote image.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ImageHandler normalises uploads and hands them to Store.  A nil Store
// answers 503.
type ImageHandler struct {
	Store   storage.Storage
	Fetcher ImageFetcher
}

func NewImageHandler(s storage.Storage, f ImageFetcher) *ImageHandler {
	return &ImageHandler{Store: s, Fetcher: f}
}

// Upload handles multipart field "image" for /api/images/upload/:type.
func (h *ImageHandler) Upload(c echo.Context) error {
	imageType := c.Param("type")
	if !storage.ValidImageType(imageType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid image type"})
	}
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "image storage is not configured"})
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	if fh.Size > storage.MaxImageBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "image exceeds 10MB"})
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && !storage.AllowedType(ct) {
		return c.JSON(http.StatusUnsupportedMediaType, echo.Map{"error": "unsupported image type"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read image"})
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, storage.MaxImageBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read image"})
	}
	return h.store(c, imageType, fh.Filename, data)
}

type downloadReq struct {
	URL       string `json:"url" validate:"required,url"`
	ImageType string `json:"imageType" validate:"required"`
	Name      string `json:"name" validate:"max=120"`
}

// DownloadFromURL fetches a remote image and stores it like an upload.
func (h *ImageHandler) DownloadFromURL(c echo.Context) error {
	var req downloadReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	if !storage.ValidImageType(req.ImageType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid image type"})
	}
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "image storage is not configured"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), uploadTimeout)
	defer cancel()
	data, err := h.Fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return imageError(c, err)
	}
	return h.store(c, req.ImageType, req.Name, data)
}

func (h *ImageHandler) store(c echo.Context, imageType, name string, data []byte) error {
	img, err := storage.Normalize(data)
	if err != nil {
		return imageError(c, err)
	}
	key := storage.ObjectName(imageType, name, img.Ext)
	ctx, cancel := context.WithTimeout(c.Request().Context(), uploadTimeout)
	defer cancel()
	url, err := h.Store.Put(ctx, key, img.ContentType, bytes.NewReader(img.Data))
	if err != nil {
		c.Logger().Errorf("storage: put %s: %v", key, err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "upload failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url, "key": key})
}

func imageError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "image exceeds 10MB"})
	case errors.Is(err, storage.ErrUnsupportedImage):
		return c.JSON(http.StatusUnsupportedMediaType, echo.Map{"error": "unsupported image type"})
	case errors.Is(err, storage.ErrBadURL), errors.Is(err, storage.ErrBlockedHost):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url not allowed"})
	}
	c.Logger().Warnf("image fetch: %v", err)
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "could not download image"})
}
