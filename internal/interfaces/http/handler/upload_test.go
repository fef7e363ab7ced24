package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	fileapp "github.com/storefront/backend/internal/application/file"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formFile struct {
	name        string
	contentType string
	body        string
}

func newUploadRouter(t *testing.T, streamThreshold int64) (*gin.Engine, *services, uuid.UUID) {
	t.Helper()
	s := newServices(t)
	userID := uuid.New()
	h := NewUploadHandler(s.uploads, streamThreshold)

	router := newAdminRouter(userID, "admin")
	router.UseRawPath = true
	router.POST("/admin/uploads", h.Upload)
	router.POST("/admin/uploads/protected", h.UploadProtected)
	router.GET("/admin/uploads", h.List)
	router.DELETE("/admin/uploads", h.Delete)
	router.POST("/admin/uploads/download-url", h.DownloadURL)
	router.GET("/admin/uploads/:key/download", h.Download)
	return router, s, userID
}

func multipartRequest(t *testing.T, path, field string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+f.name+`"`)
		if f.contentType != "" {
			header.Set("Content-Type", f.contentType)
		}
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = io.WriteString(part, f.body)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func upload(t *testing.T, router http.Handler, path string, files ...formFile) []fileapp.UploadResponse {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, path, uploadFormField, files...))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env, _ := decodeData[UploadListEnvelope](t, w)
	return env.Uploads
}

func TestUploadHandler_Upload(t *testing.T) {
	router, _, userID := newUploadRouter(t, 0)

	uploads := upload(t, router, "/admin/uploads",
		formFile{name: "catalog.csv", contentType: "text/csv", body: "sku,title\n1,shirt\n"},
		formFile{name: "logo.png", body: "not really a png"},
	)
	require.Len(t, uploads, 2)

	csv := uploads[0]
	assert.Equal(t, "catalog.csv", csv.OriginalName)
	assert.Equal(t, "text/csv", csv.MimeType)
	assert.Equal(t, int64(len("sku,title\n1,shirt\n")), csv.Size)
	assert.Equal(t, "public", csv.ACL)
	assert.True(t, strings.HasPrefix(csv.Key, "catalog-"))
	assert.True(t, strings.HasSuffix(csv.Key, ".csv"))
	assert.Equal(t, "http://localhost:9000/uploads/"+csv.Key, csv.URL)
	require.NotNil(t, csv.UploadedBy)
	assert.Equal(t, userID, *csv.UploadedBy)

	assert.Equal(t, "application/octet-stream", uploads[1].MimeType)

	t.Run("no files", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, "/admin/uploads", "attachments",
			formFile{name: "a.txt", body: "a"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not a multipart body", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/admin/uploads", map[string]string{"file": "a.txt"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUploadHandler_TooLarge(t *testing.T) {
	s := newServices(t)
	router := gin.New()
	router.Use(middleware.BodyLimit(128))
	router.POST("/admin/uploads", NewUploadHandler(s.uploads, 0).Upload)

	req := multipartRequest(t, "/admin/uploads", uploadFormField,
		formFile{name: "big.bin", body: strings.Repeat("x", 1024)})
	req.ContentLength = -1
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, dto.ErrCodeRequestTooLarge, errorCodeOf(t, w))
}

func TestUploadHandler_StreamsLargeFiles(t *testing.T) {
	router, s, _ := newUploadRouter(t, 16)
	body := strings.Repeat("0123456789", 100)

	uploads := upload(t, router, "/admin/uploads",
		formFile{name: "small.txt", contentType: "text/plain", body: "tiny"},
		formFile{name: "export.txt", contentType: "text/plain", body: body},
	)
	require.Len(t, uploads, 2)
	assert.Equal(t, "small.txt", uploads[0].OriginalName)
	assert.Equal(t, "export.txt", uploads[1].OriginalName)
	assert.Equal(t, int64(len(body)), uploads[1].Size)

	stored, err := io.ReadAll(mustOpen(t, s, uploads[1].Key))
	require.NoError(t, err)
	assert.Equal(t, body, string(stored))
}

func TestUploadHandler_ProtectedDownload(t *testing.T) {
	router, _, _ := newUploadRouter(t, 0)

	uploads := upload(t, router, "/admin/uploads/protected",
		formFile{name: "invoice.pdf", contentType: "application/pdf", body: "%PDF-1.7"})
	require.Len(t, uploads, 1)
	key := uploads[0].Key
	assert.Equal(t, "private", uploads[0].ACL)
	assert.True(t, storage.IsPrivateKey(key))

	w := doJSON(router, http.MethodPost, "/admin/uploads/download-url", map[string]string{"file_key": key})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	link, _ := decodeData[fileapp.DownloadURLResponse](t, w)
	parsed, err := url.Parse(link.DownloadURL)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+key, parsed.Path)
	assert.NotEmpty(t, parsed.Query().Get("token"))

	w = doJSON(router, http.MethodGet, "/admin/uploads/"+url.PathEscape(key)+"/download", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "%PDF-1.7", w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="invoice.pdf"`)

	t.Run("unknown key", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/admin/uploads/download-url", map[string]string{"file_key": "missing.txt"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		w = doJSON(router, http.MethodGet, "/admin/uploads/missing.txt/download", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUploadHandler_ListAndDelete(t *testing.T) {
	router, _, _ := newUploadRouter(t, 0)
	public := upload(t, router, "/admin/uploads", formFile{name: "banner.jpg", contentType: "image/jpeg", body: "jpg"})
	upload(t, router, "/admin/uploads/protected", formFile{name: "contract.pdf", body: "pdf"})

	w := doJSON(router, http.MethodGet, "/admin/uploads", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, meta := decodeData[UploadListEnvelope](t, w)
	assert.Equal(t, int64(2), meta.Count)

	w = doJSON(router, http.MethodGet, "/admin/uploads?acl=private", nil)
	list, meta := decodeData[UploadListEnvelope](t, w)
	assert.Equal(t, int64(1), meta.Count)
	require.Len(t, list.Uploads, 1)
	assert.Equal(t, "contract.pdf", list.Uploads[0].OriginalName)

	w = doJSON(router, http.MethodGet, "/admin/uploads?acl=secret", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodDelete, "/admin/uploads", map[string]string{"file_key": public[0].Key})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	deleted, _ := decodeData[appshared.DeleteResponse](t, w)
	assert.Equal(t, appshared.DeleteResponse{ID: public[0].Key, Object: "file", Deleted: true}, deleted)

	w = doJSON(router, http.MethodGet, "/admin/uploads/"+public[0].Key+"/download", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodDelete, "/admin/uploads", map[string]string{"file_key": public[0].Key})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, "/admin/uploads", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func mustOpen(t *testing.T, s *services, key string) io.Reader {
	t.Helper()
	f, err := s.files.FS().Open(key)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}
