// Package storage provides the file service backends: an S3-compatible
// object store and a local filesystem directory.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/file"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Backend names accepted by storage.provider
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// privatePrefix is the key prefix of objects uploaded with the private ACL
const privatePrefix = "private/"

// New builds the backend selected by cfg.Provider. signingSecret signs the
// download links of the local backend.
func New(ctx context.Context, cfg config.StorageConfig, signingSecret string, logger *zap.Logger) (file.Service, error) {
	switch cfg.Provider {
	case ProviderS3:
		s, err := NewS3FileService(&cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			logger.Warn("Storage bucket check failed", zap.Error(err))
		}
		return s, nil
	case ProviderLocal, "":
		return NewLocalFileService(cfg.Local, signingSecret, cfg.PresignExpiration, logger)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// newObjectKey derives a unique key from a client file name
func newObjectKey(name, ext string, acl file.ACL) string {
	name = file.SanitizeName(name)
	if ext == "" {
		ext = path.Ext(name)
	} else if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	base := strings.TrimSuffix(name, path.Ext(name))
	key := fmt.Sprintf("%s-%s%s", base, uuid.NewString()[:8], strings.ToLower(ext))
	if acl == file.ACLPrivate {
		return privatePrefix + key
	}
	return key
}

// IsPrivateKey reports whether key was issued for a private upload
func IsPrivateKey(key string) bool {
	return strings.HasPrefix(key, privatePrefix)
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("storage key is required")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

// ErrObjectNotFound is returned when a key has no stored object
var ErrObjectNotFound = shared.NewDomainError("NOT_FOUND", "File not found")
