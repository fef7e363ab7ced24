package file

import (
	"time"

	"github.com/google/uuid"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/file"
)

// FileKeyRequest is the body of the delete and download-url endpoints
type FileKeyRequest struct {
	FileKey string `json:"file_key" binding:"required,max=1024"`
}

// FileListFilter holds the query parameters of the upload list
type FileListFilter struct {
	appshared.ListParams
	ACL string `form:"acl" binding:"omitempty,oneof=public private"`
}

// UploadResponse is returned for every stored file
type UploadResponse struct {
	ID           uuid.UUID  `json:"id"`
	URL          string     `json:"url"`
	Key          string     `json:"key"`
	OriginalName string     `json:"original_name"`
	MimeType     string     `json:"mime_type"`
	Size         int64      `json:"size"`
	ACL          string     `json:"acl"`
	UploadedBy   *uuid.UUID `json:"uploaded_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DownloadURLResponse carries a time-limited download link
type DownloadURLResponse struct {
	DownloadURL string `json:"download_url"`
}

// ToUploadResponse converts a domain File to UploadResponse
func ToUploadResponse(f *file.File) *UploadResponse {
	return &UploadResponse{
		ID:           f.ID,
		URL:          f.URL,
		Key:          f.Key,
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		Size:         f.Size,
		ACL:          string(f.ACL),
		UploadedBy:   f.UploadedBy,
		CreatedAt:    f.CreatedAt,
	}
}
