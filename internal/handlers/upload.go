package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/diewo77/go-mairie/internal/storage"
	"github.com/diewo77/go-mairie/validation"
)

// errInvalidForm is returned for a multipart body that cannot be parsed.
var errInvalidForm = errors.New("invalid_form")

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 1 << 20

// parseMultipart bounds and parses a multipart body. Extra room is left for
// the text fields.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxUpload int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return validation.NewValidationError("file", "file_too_large")
		}
		return fmt.Errorf("%w: %v", errInvalidForm, err)
	}
	return nil
}

// parseUpload stores the file sent in field and returns its generated name,
// or "" when the request has no such file. The form must already be parsed.
func parseUpload(r *http.Request, field string, store storage.Store, maxUpload int64) (string, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return "", nil
	}
	fh := r.MultipartForm.File[field][0]
	if !storage.AllowedImage(fh.Filename) {
		return "", validation.NewValidationError(field, "invalid_file_type")
	}
	if fh.Size > maxUpload {
		return "", validation.NewValidationError(field, "file_too_large")
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return store.Save(r.Context(), fh.Filename, f)
}

// formValue returns a pointer to the form value, or nil when the field is absent.
func formValue(r *http.Request, field string) *string {
	if r.MultipartForm != nil {
		if v, ok := r.MultipartForm.Value[field]; ok && len(v) > 0 {
			return &v[0]
		}
		return nil
	}
	if v, ok := r.PostForm[field]; ok && len(v) > 0 {
		return &v[0]
	}
	return nil
}
