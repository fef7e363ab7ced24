package file

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/file"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UploadService stores files through the configured storage backend and
// keeps a record of every stored object
type UploadService struct {
	storage file.Service
	files   file.FileRepository
	events  shared.EventPublisher
	logger  *zap.Logger
}

// NewUploadService creates a new UploadService
func NewUploadService(storage file.Service, files file.FileRepository, events shared.EventPublisher, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{
		storage: storage,
		files:   files,
		events:  events,
		logger:  logger,
	}
}

// Upload stores publicly readable files
func (s *UploadService) Upload(ctx context.Context, uploadedBy *uuid.UUID, uploads []file.Upload) ([]UploadResponse, error) {
	return s.uploadAll(ctx, uploadedBy, uploads, file.ACLPublic)
}

// UploadProtected stores files that can only be read through presigned URLs
func (s *UploadService) UploadProtected(ctx context.Context, uploadedBy *uuid.UUID, uploads []file.Upload) ([]UploadResponse, error) {
	return s.uploadAll(ctx, uploadedBy, uploads, file.ACLPrivate)
}

func (s *UploadService) uploadAll(ctx context.Context, uploadedBy *uuid.UUID, uploads []file.Upload, acl file.ACL) ([]UploadResponse, error) {
	if len(uploads) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "No files were uploaded")
	}

	out := make([]UploadResponse, 0, len(uploads))
	for _, u := range uploads {
		var (
			res file.Result
			err error
		)
		if acl == file.ACLPrivate {
			res, err = s.storage.UploadProtected(ctx, u)
		} else {
			res, err = s.storage.Upload(ctx, u)
		}
		if err != nil {
			s.logger.Error("Failed to store upload", zap.String("name", u.Name), zap.Error(err))
			return nil, err
		}

		rec, err := s.record(ctx, res, u.Name, u.ContentType, u.Size, acl, uploadedBy)
		if err != nil {
			return nil, err
		}
		out = append(out, *ToUploadResponse(rec))
	}
	return out, nil
}

// UploadStream writes r to the storage backend through a streaming upload
func (s *UploadService) UploadStream(ctx context.Context, uploadedBy *uuid.UUID, in file.UploadStreamInput, r io.Reader) (*UploadResponse, error) {
	desc, err := s.storage.GetUploadStreamDescriptor(ctx, in)
	if err != nil {
		return nil, err
	}

	n, copyErr := io.Copy(desc.Writer, r)
	closeErr := desc.Writer.Close()
	waitErr := desc.Wait()
	if err := errors.Join(copyErr, closeErr, waitErr); err != nil {
		s.logger.Error("Streaming upload failed", zap.String("key", desc.Key), zap.Error(err))
		s.discard(ctx, desc.Key)
		return nil, err
	}

	name := in.Name
	if in.Ext != "" && path.Ext(name) == "" {
		name += "." + strings.TrimPrefix(in.Ext, ".")
	}
	rec, err := s.record(ctx, file.Result{URL: desc.URL, Key: desc.Key}, name, in.ContentType, n, in.ACL, uploadedBy)
	if err != nil {
		return nil, err
	}
	return ToUploadResponse(rec), nil
}

// record persists the file record of a stored object. The object is
// removed again when the record cannot be written.
func (s *UploadService) record(ctx context.Context, res file.Result, name, mimeType string, size int64, acl file.ACL, uploadedBy *uuid.UUID) (*file.File, error) {
	rec, err := file.NewFile(res.Key, res.URL, name, mimeType, size, acl, uploadedBy)
	if err == nil {
		err = s.files.Save(ctx, rec)
	}
	if err != nil {
		s.logger.Error("Failed to record upload", zap.String("key", res.Key), zap.Error(err))
		s.discard(ctx, res.Key)
		return nil, err
	}
	s.publish(ctx, rec)
	return rec, nil
}

// Delete removes a stored object and its record. Unknown keys succeed.
func (s *UploadService) Delete(ctx context.Context, key string) (*appshared.DeleteResponse, error) {
	rec, err := s.files.FindByKey(ctx, key)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		return nil, err
	}
	if rec != nil {
		rec.Delete()
		if err := s.files.DeleteByKey(ctx, key); err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		s.publish(ctx, rec)
	}

	s.logger.Info("File deleted", zap.String("key", key))
	return appshared.NewDeleteResponse(key, "file"), nil
}

// DownloadURL returns a presigned URL for a recorded object
func (s *UploadService) DownloadURL(ctx context.Context, key string) (*DownloadURLResponse, error) {
	if _, err := s.find(ctx, key); err != nil {
		return nil, err
	}
	url, err := s.storage.GetPresignedDownloadURL(ctx, key)
	if err != nil {
		return nil, err
	}
	return &DownloadURLResponse{DownloadURL: url}, nil
}

// Download opens a recorded object for reading. The caller closes the reader.
func (s *UploadService) Download(ctx context.Context, key string) (io.ReadCloser, *UploadResponse, error) {
	rec, err := s.find(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.DownloadAsStream(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	return rc, ToUploadResponse(rec), nil
}

// List returns a page of file records and the total count
func (s *UploadService) List(ctx context.Context, filter FileListFilter) ([]UploadResponse, int64, error) {
	f := filter.ToFilter()
	if filter.ACL != "" {
		f.Filters["acl"] = filter.ACL
	}
	files, total, err := s.files.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UploadResponse, 0, len(files))
	for i := range files {
		out = append(out, *ToUploadResponse(&files[i]))
	}
	return out, total, nil
}

func (s *UploadService) find(ctx context.Context, key string) (*file.File, error) {
	rec, err := s.files.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFoundError("File", key)
		}
		return nil, err
	}
	return rec, nil
}

func (s *UploadService) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn("Failed to remove orphaned object", zap.String("key", key), zap.Error(err))
	}
}

func (s *UploadService) publish(ctx context.Context, f *file.File) {
	if err := shared.PublishAndClear(ctx, s.events, f); err != nil {
		s.logger.Warn("Failed to publish file events", zap.Error(err))
	}
}
