package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	fileapp "github.com/storefront/backend/internal/application/file"
	"github.com/storefront/backend/internal/domain/file"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// uploadFormField is the multipart field carrying the uploaded files
const uploadFormField = "files"

// DefaultStreamThreshold is the part size above which an upload is written
// through the backend's streaming upload instead of a single put
const DefaultStreamThreshold int64 = 8 << 20

// UploadListEnvelope wraps stored files
type UploadListEnvelope struct {
	Uploads []fileapp.UploadResponse `json:"uploads"`
}

// UploadHandler handles file uploads of the admin surface
type UploadHandler struct {
	BaseHandler
	uploadService   *fileapp.UploadService
	streamThreshold int64
}

// NewUploadHandler creates a new UploadHandler. Files larger than
// streamThreshold are streamed to storage; zero selects DefaultStreamThreshold.
func NewUploadHandler(uploadService *fileapp.UploadService, streamThreshold int64) *UploadHandler {
	if streamThreshold <= 0 {
		streamThreshold = DefaultStreamThreshold
	}
	return &UploadHandler{uploadService: uploadService, streamThreshold: streamThreshold}
}

// Upload godoc
// @ID           uploadFiles
//
//	@Summary		Upload public files
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			files	formData	file	true	"Files to upload"
//	@Success		200		{object}	APIResponse[UploadListEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	h.upload(c, file.ACLPublic)
}

// UploadProtected godoc
// @ID           uploadProtectedFiles
//
//	@Summary		Upload private files
//	@Description	Private files are only readable through download URLs
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			files	formData	file	true	"Files to upload"
//	@Success		200		{object}	APIResponse[UploadListEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/uploads/protected [post]
func (h *UploadHandler) UploadProtected(c *gin.Context) {
	h.upload(c, file.ACLPrivate)
}

func (h *UploadHandler) upload(c *gin.Context, acl file.ACL) {
	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Upload exceeds the maximum allowed size")
			return
		}
		h.BadRequest(c, "Expected a multipart form with a files field")
		return
	}
	headers := form.File[uploadFormField]
	if len(headers) == 0 {
		h.BadRequest(c, "No files were uploaded")
		return
	}

	ctx := c.Request.Context()
	var uploadedBy *uuid.UUID
	if id, err := getUserID(c); err == nil {
		uploadedBy = &id
	}

	var small []file.Upload
	var uploads []fileapp.UploadResponse
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.InternalError(c, "Failed to read uploaded file")
			return
		}
		defer f.Close()

		if fh.Size <= h.streamThreshold {
			small = append(small, file.Upload{
				Name:        fh.Filename,
				ContentType: partContentType(fh),
				Size:        fh.Size,
				Body:        f,
			})
			continue
		}

		logger.L(ctx).Debug("Streaming large upload", zap.String("name", fh.Filename), zap.Int64("size", fh.Size))
		res, err := h.uploadService.UploadStream(ctx, uploadedBy, file.UploadStreamInput{
			Name:        fh.Filename,
			Ext:         path.Ext(fh.Filename),
			ACL:         acl,
			ContentType: partContentType(fh),
		}, f)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		uploads = append(uploads, *res)
	}

	if len(small) > 0 {
		var stored []fileapp.UploadResponse
		if acl == file.ACLPrivate {
			stored, err = h.uploadService.UploadProtected(ctx, uploadedBy, small)
		} else {
			stored, err = h.uploadService.Upload(ctx, uploadedBy, small)
		}
		if err != nil {
			h.HandleError(c, err)
			return
		}
		uploads = append(stored, uploads...)
	}

	h.Success(c, UploadListEnvelope{Uploads: uploads})
}

func partContentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// List godoc
// @ID           listUploads
//
//	@Summary		List stored files
//	@Tags			uploads
//	@Produce		json
//	@Param			q		query		string	false	"Search by file name"
//	@Param			acl		query		string	false	"Filter by ACL"	Enums(public, private)
//	@Param			offset	query		int		false	"Number of files to skip"	default(0)
//	@Param			limit	query		int		false	"Page size"					default(50)
//	@Success		200		{object}	APIResponse[UploadListEnvelope]
//	@Security		BearerAuth
//	@Router			/admin/uploads [get]
func (h *UploadHandler) List(c *gin.Context) {
	var filter fileapp.FileListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	uploads, count, err := h.uploadService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, UploadListEnvelope{Uploads: uploads}, count, filter.ListParams)
}

// Delete godoc
// @ID           deleteUpload
//
//	@Summary		Delete a stored file
//	@Tags			uploads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		fileapp.FileKeyRequest	true	"File key"
//	@Success		200		{object}	appshared.DeleteResponse
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/uploads [delete]
func (h *UploadHandler) Delete(c *gin.Context) {
	var req fileapp.FileKeyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.uploadService.Delete(c.Request.Context(), req.FileKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DownloadURL godoc
// @ID           getUploadDownloadURL
//
//	@Summary		Get a download URL
//	@Description	Returns a time-limited URL for reading a stored file
//	@Tags			uploads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		fileapp.FileKeyRequest	true	"File key"
//	@Success		200		{object}	APIResponse[fileapp.DownloadURLResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/uploads/download-url [post]
func (h *UploadHandler) DownloadURL(c *gin.Context) {
	var req fileapp.FileKeyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.uploadService.DownloadURL(c.Request.Context(), req.FileKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Download godoc
// @ID           downloadUpload
//
//	@Summary		Download a stored file
//	@Description	Streams the file content. Keys containing a slash must be URL encoded.
//	@Tags			uploads
//	@Produce		octet-stream
//	@Param			key	path	string	true	"File key"
//	@Success		200	{file}	binary
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/uploads/{key}/download [get]
func (h *UploadHandler) Download(c *gin.Context) {
	rc, meta, err := h.uploadService.Download(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer rc.Close()

	contentType := meta.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, meta.Size, contentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", meta.OriginalName),
	})
}
