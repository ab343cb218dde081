package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/go-mairie/internal/storage"
	"github.com/diewo77/go-mairie/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func multipartRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("ville", "Kara"))
	if filename != "" {
		fw, err := mw.CreateFormFile("logo", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	r := httptest.NewRequest(http.MethodPost, "/mairies", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func newDiskStore(t *testing.T) *storage.DiskStore {
	t.Helper()
	s, err := storage.NewDiskStore(t.TempDir(), storage.PublicPrefix)
	require.NoError(t, err)
	return s
}

func TestParseUpload(t *testing.T) {
	store := newDiskStore(t)

	t.Run("stores image", func(t *testing.T) {
		r := multipartRequest(t, "Logo.PNG", []byte("img"))
		require.NoError(t, parseMultipart(httptest.NewRecorder(), r, 1<<20))

		name, err := parseUpload(r, "logo", store, 1<<20)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(name, ".png"))

		rc, err := store.Open(r.Context(), name)
		require.NoError(t, err)
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		assert.Equal(t, "img", string(data))

		v := formValue(r, "ville")
		require.NotNil(t, v)
		assert.Equal(t, "Kara", *v)
		assert.Nil(t, formValue(r, "region"))
	})

	t.Run("no file", func(t *testing.T) {
		r := multipartRequest(t, "", nil)
		require.NoError(t, parseMultipart(httptest.NewRecorder(), r, 1<<20))
		name, err := parseUpload(r, "logo", store, 1<<20)
		require.NoError(t, err)
		assert.Empty(t, name)
	})

	t.Run("rejects type", func(t *testing.T) {
		r := multipartRequest(t, "logo.exe", []byte("MZ"))
		require.NoError(t, parseMultipart(httptest.NewRecorder(), r, 1<<20))
		_, err := parseUpload(r, "logo", store, 1<<20)
		var verr *validation.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "invalid_file_type", verr.Failures["logo"].Code)
	})

	t.Run("rejects size", func(t *testing.T) {
		r := multipartRequest(t, "logo.jpg", bytes.Repeat([]byte("a"), 64))
		require.NoError(t, parseMultipart(httptest.NewRecorder(), r, 1<<20))
		_, err := parseUpload(r, "logo", store, 16)
		var verr *validation.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "file_too_large", verr.Failures["logo"].Code)
	})
}

func TestUploadServe(t *testing.T) {
	store := newDiskStore(t)
	name, err := store.Save(t.Context(), "logo.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	h := NewUploadHandler(store, zap.NewNop())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /uploads/{name}", h.Serve)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/"+name, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", w.Body.String())

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParseMultipartMalformed(t *testing.T) {
	body := "--xyz\r\nContent-Disposition: form-data; name=\"ville\"\r\n\r\nKara"
	r := httptest.NewRequest(http.MethodPost, "/mairies", strings.NewReader(body))
	r.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	w := httptest.NewRecorder()

	err := parseMultipart(w, r, 1<<20)
	require.ErrorIs(t, err, errInvalidForm)

	writeError(w, r, zap.NewNop(), err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"invalid_form"`)
}

func TestParseUploadRejectsSVG(t *testing.T) {
	store := newDiskStore(t)
	r := multipartRequest(t, "logo.svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`))
	require.NoError(t, parseMultipart(httptest.NewRecorder(), r, 1<<20))

	name, err := parseUpload(r, "logo", store, 1<<20)
	var verr *validation.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "invalid_file_type", verr.Failures["logo"].Code)
	assert.Empty(t, name)
}

func TestUploadServeSandboxesContent(t *testing.T) {
	store := newDiskStore(t)
	// stored before SVG uploads were refused
	name, err := store.Save(t.Context(), "old.svg", strings.NewReader(`<svg><script>alert(1)</script></svg>`))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /uploads/{name}", NewUploadHandler(store, zap.NewNop()).Serve)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/"+name, nil))

	require.Equal(t, http.StatusOK, w.Code)
	csp := w.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "sandbox")
	assert.Contains(t, csp, "default-src 'none'")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
