package file

import (
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ACL controls who can read an uploaded object
type ACL string

const (
	ACLPublic  ACL = "public"
	ACLPrivate ACL = "private"
)

// File records an object stored through the file service
type File struct {
	shared.BaseAggregateRoot
	Key          string
	URL          string
	OriginalName string
	MimeType     string
	Size         int64
	ACL          ACL
	UploadedBy   *uuid.UUID
}

// NewFile creates a record for an object that was just stored
func NewFile(key, url, originalName, mimeType string, size int64, acl ACL, uploadedBy *uuid.UUID) (*File, error) {
	if strings.TrimSpace(key) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "File key cannot be empty")
	}
	if acl == "" {
		acl = ACLPublic
	}
	if acl != ACLPublic && acl != ACLPrivate {
		return nil, shared.NewDomainError("INVALID_INPUT", "ACL must be public or private")
	}
	f := &File{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Key:               key,
		URL:               url,
		OriginalName:      originalName,
		MimeType:          mimeType,
		Size:              size,
		ACL:               acl,
		UploadedBy:        uploadedBy,
	}
	f.AddDomainEvent(NewFileEvent(EventTypeFileUploaded, f))
	return f, nil
}

// IsPrivate reports whether the object needs a presigned URL to be read
func (f *File) IsPrivate() bool {
	return f.ACL == ACLPrivate
}

// Delete soft deletes the record
func (f *File) Delete() {
	f.MarkDeleted()
	f.AddDomainEvent(NewFileEvent(EventTypeFileDeleted, f))
}

// SanitizeName strips directories and unsafe characters from a client file name
func SanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}
