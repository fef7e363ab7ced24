package file

import "github.com/storefront/backend/internal/domain/shared"

// Aggregate type constant for File
const AggregateTypeFile = "File"

// Event type constants for File
const (
	EventTypeFileUploaded = "FileUploaded"
	EventTypeFileDeleted  = "FileDeleted"
)

// FileEvent is published when a file is uploaded or deleted
type FileEvent struct {
	shared.BaseDomainEvent
	Key string `json:"key"`
	ACL ACL    `json:"acl"`
}

// NewFileEvent creates a FileEvent of the given type
func NewFileEvent(eventType string, f *File) *FileEvent {
	return &FileEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeFile, f.ID),
		Key:             f.Key,
		ACL:             f.ACL,
	}
}
