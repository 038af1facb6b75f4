// Package netx holds HTTP helpers for talking to object storage.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// UploadError is a non-2xx answer from the storage endpoint.
type UploadError struct {
	StatusCode int
	Body       string
}

func (e *UploadError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upload failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("upload failed: %d %s; body: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// PutPresigned uploads size bytes from r to a presigned PUT URL. An empty
// contentType is sent as application/octet-stream; it must match what the
// URL was signed for.
func PutPresigned(ctx context.Context, client *http.Client, url string, r io.Reader, size int64, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, r)
	if err != nil {
		return err
	}
	req.ContentLength = size
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &UploadError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return nil
}
