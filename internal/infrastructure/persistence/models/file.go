package models

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/file"
)

// FileModel records an object written through the file service
type FileModel struct {
	SoftDeleteModel
	Key          string     `gorm:"type:varchar(512);not null;uniqueIndex"`
	URL          string     `gorm:"type:text;not null"`
	OriginalName string     `gorm:"type:varchar(255);not null"`
	MimeType     string     `gorm:"type:varchar(127)"`
	Size         int64      `gorm:"not null;default:0"`
	ACL          file.ACL   `gorm:"column:acl;type:varchar(10);not null;default:'public'"`
	UploadedBy   *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (FileModel) TableName() string {
	return "files"
}

// ToDomain converts the model to a domain File
func (m *FileModel) ToDomain() *file.File {
	return &file.File{
		BaseAggregateRoot: m.ToDomainSoftDelete(),
		Key:               m.Key,
		URL:               m.URL,
		OriginalName:      m.OriginalName,
		MimeType:          m.MimeType,
		Size:              m.Size,
		ACL:               m.ACL,
		UploadedBy:        m.UploadedBy,
	}
}

// FileModelFromDomain converts a domain File to its model
func FileModelFromDomain(f *file.File) *FileModel {
	m := &FileModel{
		Key:          f.Key,
		URL:          f.URL,
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		Size:         f.Size,
		ACL:          f.ACL,
		UploadedBy:   f.UploadedBy,
	}
	m.FromDomainSoftDelete(f.BaseAggregateRoot)
	return m
}
