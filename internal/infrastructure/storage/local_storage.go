package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/storefront/backend/internal/domain/file"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure LocalFileService implements file.Service
var _ file.Service = (*LocalFileService)(nil)

// downloadAudience marks tokens that authorize reading one private object
const downloadAudience = "file-download"

// LocalFileService stores files in a directory served by the backend under
// BaseURL. Private objects are only readable through signed download links.
type LocalFileService struct {
	root              *os.Root
	baseURL           string
	secret            []byte
	presignExpiration time.Duration
	logger            *zap.Logger
}

// NewLocalFileService opens (and creates if needed) the upload directory
func NewLocalFileService(cfg config.LocalStorageConfig, signingSecret string, presignExpiration time.Duration, logger *zap.Logger) (*LocalFileService, error) {
	if cfg.Dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if signingSecret == "" {
		return nil, errors.New("signing secret is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	root, err := os.OpenRoot(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if presignExpiration <= 0 {
		presignExpiration = 15 * time.Minute
	}
	return &LocalFileService{
		root:              root,
		baseURL:           strings.TrimSuffix(cfg.BaseURL, "/"),
		secret:            []byte(signingSecret),
		presignExpiration: presignExpiration,
		logger:            logger,
	}, nil
}

// Close releases the directory handle
func (s *LocalFileService) Close() error {
	return s.root.Close()
}

// Upload stores a public object
func (s *LocalFileService) Upload(ctx context.Context, f file.Upload) (file.Result, error) {
	return s.write(ctx, f, file.ACLPublic)
}

// UploadProtected stores an object under the private prefix
func (s *LocalFileService) UploadProtected(ctx context.Context, f file.Upload) (file.Result, error) {
	return s.write(ctx, f, file.ACLPrivate)
}

func (s *LocalFileService) write(ctx context.Context, f file.Upload, acl file.ACL) (file.Result, error) {
	if f.Body == nil {
		return file.Result{}, errors.New("upload body is required")
	}
	key := newObjectKey(f.Name, "", acl)
	w, err := s.create(key)
	if err != nil {
		return file.Result{}, err
	}
	if _, err := io.Copy(w, &contextReader{ctx: ctx, r: f.Body}); err != nil {
		_ = w.Close()
		_ = s.root.Remove(key)
		return file.Result{}, fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return file.Result{}, fmt.Errorf("failed to write object: %w", err)
	}
	return file.Result{URL: s.objectURL(key), Key: key}, nil
}

func (s *LocalFileService) create(key string) (*os.File, error) {
	if dir := path.Dir(key); dir != "." {
		if err := s.root.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := s.root.OpenFile(key, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create object: %w", err)
	}
	return f, nil
}

// Delete removes an object; missing objects are ignored
func (s *LocalFileService) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.root.Remove(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// GetUploadStreamDescriptor creates the object file and hands out its writer
func (s *LocalFileService) GetUploadStreamDescriptor(_ context.Context, in file.UploadStreamInput) (*file.UploadStreamDescriptor, error) {
	key := newObjectKey(in.Name, in.Ext, in.ACL)
	f, err := s.create(key)
	if err != nil {
		return nil, err
	}
	w := &closeOnceWriter{File: f}
	return &file.UploadStreamDescriptor{
		Writer: w,
		URL:    s.objectURL(key),
		Key:    key,
		Wait:   w.wait,
	}, nil
}

// DownloadAsStream opens the object for reading
func (s *LocalFileService) DownloadAsStream(_ context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	f, err := s.root.Open(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return f, nil
}

// GetPresignedDownloadURL returns the object URL with a signed token that
// the uploads file server accepts until it expires
func (s *LocalFileService) GetPresignedDownloadURL(_ context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   key,
		Audience:  jwt.ClaimStrings{downloadAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.presignExpiration)),
	}).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign download URL: %w", err)
	}
	return s.objectURL(key) + "?token=" + url.QueryEscape(token), nil
}

// VerifyDownloadToken checks that token authorizes reading key
func (s *LocalFileService) VerifyDownloadToken(key, token string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithAudience(downloadAudience))
	if err != nil {
		return err
	}
	if claims.Subject != key {
		return errors.New("token was issued for another object")
	}
	return nil
}

// FS exposes the upload directory for static serving
func (s *LocalFileService) FS() fs.FS {
	return s.root.FS()
}

func (s *LocalFileService) objectURL(key string) string {
	return s.baseURL + "/" + key
}

// closeOnceWriter records the result of Close so Wait can report it
type closeOnceWriter struct {
	*os.File
	closed bool
	err    error
}

func (w *closeOnceWriter) Close() error {
	if w.closed {
		return w.err
	}
	w.closed = true
	w.err = w.File.Close()
	return w.err
}

func (w *closeOnceWriter) wait() error {
	if !w.closed {
		return errors.New("upload stream was not closed")
	}
	return w.err
}

// contextReader stops a copy when the request context is cancelled
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
