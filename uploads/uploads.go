// Package uploads accepts admin image uploads and hands back a public URL.
package uploads

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"paperpaints/common"
	"paperpaints/logs"
	"paperpaints/storage"
)

const (
	imageField  = "image"
	imageFolder = "images"
	sniffLen    = 512
)

type UploadsModule struct {
	media       storage.Storage
	requireAuth gin.HandlerFunc
	maxBytes    int64
}

func NewUploadsModule(media storage.Storage, requireAuth gin.HandlerFunc, maxBytes int64) *UploadsModule {
	return &UploadsModule{media: media, requireAuth: requireAuth, maxBytes: maxBytes}
}

func (u *UploadsModule) RegisterRoutes(router gin.IRouter) {
	router.POST("/uploads/image", u.requireAuth, u.uploadImage)
}

func (u *UploadsModule) uploadImage(c *gin.Context) {
	const fallback = "Failed to upload image"

	if u.maxBytes > 0 {
		// room for the multipart envelope around the file
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, u.maxBytes+64<<10)
	}

	fh, err := c.FormFile(imageField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.Respond(c, &common.Error{Status: http.StatusRequestEntityTooLarge, Message: "Image is too large"}, "")
			return
		}
		common.Respond(c, common.Validation("No file uploaded"), "")
		return
	}
	if u.maxBytes > 0 && fh.Size > u.maxBytes {
		common.Respond(c, &common.Error{Status: http.StatusRequestEntityTooLarge, Message: "Image is too large"}, "")
		return
	}

	f, err := fh.Open()
	if err != nil {
		common.Respond(c, err, fallback)
		return
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		common.Respond(c, err, fallback)
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		common.Respond(c, common.Validation("Only image files are allowed"), "")
		return
	}

	url, err := storage.Upload(c.Request.Context(), u.media, imageFolder, fh.Filename, contentType,
		io.MultiReader(bytes.NewReader(head), f))
	if err != nil {
		common.Respond(c, err, fallback)
		return
	}

	logs.Logger.WithFields(logrus.Fields{
		"reqid": common.RequestIDFrom(c),
		"url":   url,
		"size":  fh.Size,
	}).Info("image uploaded")
	c.JSON(http.StatusOK, gin.H{"url": url})
}
