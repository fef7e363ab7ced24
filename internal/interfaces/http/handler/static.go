package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// spaIndex is the entry document of the admin dashboard build
const spaIndex = "index.html"

// DownloadTokenVerifier checks the signed token of a private download link
type DownloadTokenVerifier interface {
	VerifyDownloadToken(key, token string) error
}

// UploadsHandler serves objects of the local storage backend. Public keys
// are readable by anyone; private keys need a valid download token.
type UploadsHandler struct {
	BaseHandler
	files    fs.FS
	verifier DownloadTokenVerifier
}

// NewUploadsHandler creates a new UploadsHandler over the upload directory
func NewUploadsHandler(files fs.FS, verifier DownloadTokenVerifier) *UploadsHandler {
	return &UploadsHandler{files: files, verifier: verifier}
}

// Serve godoc
// @ID           serveUpload
//
//	@Summary		Read a stored file
//	@Description	Serves files of the local storage backend. Private files require the token of a download URL.
//	@Tags			uploads
//	@Produce		octet-stream
//	@Param			key		path	string	true	"File key"
//	@Param			token	query	string	false	"Download token"
//	@Success		200		{file}	binary
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/uploads/{key} [get]
func (h *UploadsHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || !fs.ValidPath(key) {
		h.NotFound(c, "File not found")
		return
	}

	if storage.IsPrivateKey(key) {
		token := c.Query("token")
		if token == "" || h.verifier == nil || h.verifier.VerifyDownloadToken(key, token) != nil {
			h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "A valid download token is required")
			return
		}
		c.Header("Cache-Control", "private, no-store")
	} else {
		c.Header("Cache-Control", "public, max-age=86400")
	}

	info, err := fs.Stat(h.files, key)
	if err != nil || info.IsDir() {
		h.NotFound(c, "File not found")
		return
	}
	http.ServeFileFS(c.Writer, c.Request, h.files, key)
}

// SPAHandler serves the admin dashboard build. Paths that are not files of
// the build get index.html so the client-side router can resolve them.
type SPAHandler struct {
	dist fs.FS
	base string
}

// NewSPAHandler creates a new SPAHandler for a build mounted at base
func NewSPAHandler(dist fs.FS, base string) *SPAHandler {
	return &SPAHandler{dist: dist, base: "/" + strings.Trim(base, "/")}
}

// Base returns the URL prefix the build is mounted at
func (h *SPAHandler) Base() string {
	return h.base
}

// Available reports whether the build contains an index.html
func (h *SPAHandler) Available() bool {
	_, err := fs.Stat(h.dist, spaIndex)
	return err == nil
}

// Redirect sends the bare mount point to its trailing-slash form
func (h *SPAHandler) Redirect(c *gin.Context) {
	c.Redirect(http.StatusMovedPermanently, h.base+"/")
}

// Serve handles GET and HEAD requests below the mount point
func (h *SPAHandler) Serve(c *gin.Context) {
	name := strings.TrimPrefix(path.Clean("/"+c.Param("filepath")), "/")

	if name != "" && name != spaIndex {
		info, err := fs.Stat(h.dist, name)
		switch {
		case err == nil && !info.IsDir():
			// hashed build assets never change under the same name
			if strings.HasPrefix(name, "assets/") {
				c.Header("Cache-Control", "public, max-age=31536000, immutable")
			}
			http.ServeFileFS(c.Writer, c.Request, h.dist, name)
			return
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			c.Status(http.StatusInternalServerError)
			return
		}
	}

	index, err := fs.ReadFile(h.dist, spaIndex)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/html; charset=utf-8", index)
}
