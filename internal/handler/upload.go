package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docinsight/internal/domain"
)

// multipartOverhead is added to the body limit for form fields and part headers.
const multipartOverhead = 1 << 20

// apiKeyHeader lets clients send their own provider key outside the form body.
const apiKeyHeader = "X-API-Key"

// UploadLimits bounds multipart requests.
type UploadLimits struct {
	MaxFileBytes int64
	MaxFiles     int
}

func (l UploadLimits) bodyLimit() int64 {
	files := l.MaxFiles
	if files <= 0 {
		files = 1
	}
	return int64(files)*l.MaxFileBytes + multipartOverhead
}

// parseMultipart caps the request body and parses the multipart form.
func parseMultipart(c *gin.Context, limits UploadLimits) (*multipart.Form, error) {
	if limits.MaxFileBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limits.bodyLimit())
	}
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.ErrFileTooLarge
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrNoFiles, err)
	}
	return form, nil
}

// formFiles returns the file headers under any of the given field names.
func formFiles(form *multipart.Form, fields ...string) []*multipart.FileHeader {
	var out []*multipart.FileHeader
	for _, f := range fields {
		out = append(out, form.File[f]...)
	}
	return out
}

// formValues returns the non-blank values under any of the given field names.
func formValues(form *multipart.Form, fields ...string) []string {
	var out []string
	for _, f := range fields {
		for _, v := range form.Value[f] {
			if strings.TrimSpace(v) != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func formValue(form *multipart.Form, field string) string {
	if v := form.Value[field]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// readFiles loads uploaded files into memory, enforcing the per-request limits.
func readFiles(headers []*multipart.FileHeader, limits UploadLimits) ([]domain.UploadedFile, error) {
	if len(headers) == 0 {
		return nil, domain.ErrNoFiles
	}
	if limits.MaxFiles > 0 && len(headers) > limits.MaxFiles {
		return nil, fmt.Errorf("%w: got %d, max %d", domain.ErrTooManyFiles, len(headers), limits.MaxFiles)
	}

	files := make([]domain.UploadedFile, 0, len(headers))
	for _, h := range headers {
		data, err := readFile(h, limits.MaxFileBytes)
		if err != nil {
			return nil, err
		}
		files = append(files, domain.UploadedFile{Name: h.Filename, Data: data})
	}
	return files, nil
}

func readFile(h *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if maxBytes > 0 && h.Size > maxBytes {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileTooLarge, h.Filename)
	}
	f, err := h.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", h.Filename, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", h.Filename, err)
	}
	return data, nil
}

// requestAPIKey prefers the form field and falls back to the X-API-Key header.
func requestAPIKey(c *gin.Context, form *multipart.Form) string {
	if form != nil {
		if k := formValue(form, "api_key"); k != "" {
			return k
		}
	}
	return strings.TrimSpace(c.GetHeader(apiKeyHeader))
}
