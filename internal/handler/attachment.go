package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-activity/internal/model"
	"github.com/iliyamo/ticket-activity/internal/repository"
	"github.com/iliyamo/ticket-activity/internal/storage"
)

// Upload limits enforced before anything reaches the object store.
const (
	maxUploadSize  = 10 * 1024 * 1024 // 10MB per file
	maxUploadFiles = 5                // per request
)

// allowedExtensions whitelists what may be attached to a comment:
// images, video, pdf and office documents.
var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".mp4": true, ".avi": true, ".mov": true, ".wmv": true,
	".pdf": true,
	".doc": true, ".docx": true,
	".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
}

// AttachmentHandler bundles dependencies for the attachment endpoints.
// Uploads go to the external store first; only a confirmed URL is
// registered against the comment.
type AttachmentHandler struct {
	Attachments *repository.AttachmentRepo
	Store       storage.Uploader
}

func NewAttachmentHandler(a *repository.AttachmentRepo, store storage.Uploader) *AttachmentHandler {
	return &AttachmentHandler{Attachments: a, Store: store}
}

// Upload handles POST /api/comments/:comment_id/attachments.  Multipart
// files arrive under the "file" field, at most five per request, 10MB
// each, whitelisted extensions only.  Every file is uploaded to the
// store and then registered; a store failure is reported as a 500
// without touching the database for that file.
func (h *AttachmentHandler) Upload(c echo.Context) error {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error", "message": "invalid comment id",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error", "message": "no files were uploaded",
		})
	}
	files := form.File["file"]
	if len(files) == 0 {
		files = form.File["files"]
	}
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error", "message": "no files were uploaded",
		})
	}
	if len(files) > maxUploadFiles {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  "error",
			"message": fmt.Sprintf("at most %d files per request", maxUploadFiles),
		})
	}
	for _, fh := range files {
		if fh.Size > maxUploadSize {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"status": "error", "message": "file too large, the limit is 10MB",
			})
		}
		if !allowedExtensions[strings.ToLower(path.Ext(fh.Filename))] {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"status": "error", "message": "file type not allowed",
			})
		}
	}

	if h.Store == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error", "message": "file storage is not configured",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	saved := make([]model.Attachment, 0, len(files))
	for _, fh := range files {
		data, err := readMultipartFile(fh)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"status": "error", "message": "failed to read uploaded file",
			})
		}
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}

		url, err := h.Store.Upload(ctx, fh.Filename, contentType, data)
		if err != nil || url == "" {
			log.Printf("attachment upload for comment %d failed: %v", commentID, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"status": "error", "message": "failed to upload file",
			})
		}

		rec, err := h.Attachments.Create(ctx, commentID, fh.Filename, url, contentType, fh.Size)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				return commentNotFound(c)
			case errors.Is(err, repository.ErrUploadFailed):
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"status": "error", "message": "failed to upload file",
				})
			default:
				// Bytes are in the store but the row failed: an
				// orphaned object, not corruption.  Log and report.
				log.Printf("attachment register for comment %d failed (orphaned %s): %v", commentID, url, err)
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"status": "error", "message": "failed to register attachment",
				})
			}
		}
		saved = append(saved, *rec)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"status": "success", "message": "files uploaded", "data": saved,
	})
}

// List handles GET /api/comments/:comment_id/attachments.
func (h *AttachmentHandler) List(c echo.Context) error {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error", "message": "invalid comment id",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	atts, err := h.Attachments.ListByComment(ctx, commentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error", "message": "failed to load attachments",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": atts})
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadSize+1))
}
