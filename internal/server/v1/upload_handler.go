package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imgworks/flux-kontext-api/internal/storage"
	"github.com/imgworks/flux-kontext-api/pkg/api"
)

type UploadHandler struct {
	uploads *storage.Local
}

func NewUploadHandler(uploads *storage.Local) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload stores a multipart image and returns its locally served URL.
//
// POST /api/upload-image
func (h *UploadHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		_ = c.Error(api.BadRequestError("No image file provided"))
		return
	}

	resp, err := h.uploads.SaveUpload(fh)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
