package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/cppla/inkwell/config"
)

var (
	errUploadTooLarge = errors.New("image is too large")
	errUploadNotImage = errors.New("only image uploads are allowed")
)

// imageUploader stores form images under the images directory.
type imageUploader struct {
	dir       string
	urlPrefix string
	maxBytes  int64
	now       func() time.Time
}

func newImageUploader(c config.UploadsSection) *imageUploader {
	return &imageUploader{
		dir:       c.ImagesDir,
		urlPrefix: c.URLPrefix,
		maxBytes:  int64(c.MaxSizeMB) << 20,
		now:       time.Now,
	}
}

// save stores the file sent in field and returns its public path. A request
// without the field, or without a multipart body, yields "" and no error.
func (u *imageUploader) save(ctx *gin.Context, field string) (string, error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	if fh.Size == 0 {
		return "", nil
	}
	if fh.Size > u.maxBytes {
		return "", errUploadTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", errUploadNotImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	// the extension follows the sniffed type, not the client's file name
	dst, name, err := u.create(mt.Extension())
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(filepath.Join(u.dir, name))
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(filepath.Join(u.dir, name))
		return "", err
	}
	return path.Join(u.urlPrefix, name), nil
}

// create opens a new file named <unix-millis><ext>, bumping the number
// until the name is free.
func (u *imageUploader) create(ext string) (*os.File, string, error) {
	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return nil, "", err
	}
	stamp := u.now().UnixMilli()
	for i := 0; i < 100; i++ {
		name := strconv.FormatInt(stamp+int64(i), 10) + ext
		f, err := os.OpenFile(filepath.Join(u.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", fmt.Errorf("no free image name near %d", stamp)
}

// remove deletes a previously saved image, used when the post write fails.
func (u *imageUploader) remove(publicPath string) {
	if publicPath == "" {
		return
	}
	os.Remove(filepath.Join(u.dir, path.Base(publicPath)))
}

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, errUploadTooLarge), errors.Is(err, errUploadNotImage):
		return err.Error()
	default:
		return "invalid upload"
	}
}
