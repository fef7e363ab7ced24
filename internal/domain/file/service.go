package file

import (
	"context"
	"io"
)

// Upload is a file handed to a storage backend
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Result identifies a stored object
type Result struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// UploadStreamInput describes an object that will be written as a stream
type UploadStreamInput struct {
	Name        string
	Ext         string
	ACL         ACL
	ContentType string
}

// UploadStreamDescriptor is returned by GetUploadStreamDescriptor. Callers
// write to Writer, Close it, then call Wait to learn whether the backend
// stored the object.
type UploadStreamDescriptor struct {
	Writer io.WriteCloser
	URL    string
	Key    string
	Wait   func() error
}

// Service is the pluggable file storage contract implemented by every backend
type Service interface {
	// Upload stores a publicly readable object
	Upload(ctx context.Context, f Upload) (Result, error)

	// UploadProtected stores a private object
	UploadProtected(ctx context.Context, f Upload) (Result, error)

	// Delete removes the object with the given key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error

	// GetUploadStreamDescriptor opens a streaming upload
	GetUploadStreamDescriptor(ctx context.Context, in UploadStreamInput) (*UploadStreamDescriptor, error)

	// DownloadAsStream opens the object for reading
	DownloadAsStream(ctx context.Context, key string) (io.ReadCloser, error)

	// GetPresignedDownloadURL returns a time-limited URL for reading the object
	GetPresignedDownloadURL(ctx context.Context, key string) (string, error)
}
