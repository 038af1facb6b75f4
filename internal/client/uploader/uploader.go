// Package uploader delivers queued inspections to the backend over HTTP.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/dvi/internal/client/client"
	"github.com/dmitrijs2005/dvi/internal/client/syncer"
	"github.com/dmitrijs2005/dvi/internal/filex"
	"github.com/dmitrijs2005/dvi/internal/logging"
	"github.com/dmitrijs2005/dvi/internal/models"
)

// DeliveryError is a failed attempt to deliver one submission. The item
// stays queued.
type DeliveryError struct {
	SubmissionID string
	// StatusCode is the backend's HTTP status, 0 when no response arrived.
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("deliver %s: status %d: %v", e.SubmissionID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("deliver %s: %v", e.SubmissionID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// API is the part of the backend client the uploader needs.
type API interface {
	SubmitInspection(ctx context.Context, token string, s models.Submission) error
	PresignPhoto(ctx context.Context, token, contentType string) (models.PhotoUpload, error)
	UploadPhoto(ctx context.Context, url string, r io.Reader, size int64, contentType string) error
}

// TokenSource yields the current session token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type HTTPUploader struct {
	api    API
	tokens TokenSource
	logger logging.Logger
}

var _ syncer.Uploader = (*HTTPUploader)(nil)

func NewHTTPUploader(api API, tokens TokenSource, logger logging.Logger) *HTTPUploader {
	return &HTTPUploader{api: api, tokens: tokens, logger: logger}
}

// Upload sends photos referenced by local path first and then the
// submission, with photo fields rewritten to storage keys. The caller's
// value is not modified.
func (u *HTTPUploader) Upload(ctx context.Context, s models.Submission) error {
	token, err := u.tokens.Token(ctx)
	if err != nil {
		return &DeliveryError{SubmissionID: s.SubmissionID, Err: err}
	}

	out := s.Clone()
	for i := range out.Items {
		path, ok := filex.LocalPath(out.Items[i].Photo)
		if !ok {
			continue
		}
		key, err := u.uploadPhoto(ctx, token, path)
		if err != nil {
			return wrap(s.SubmissionID, fmt.Errorf("photo for line item %d: %w", out.Items[i].LineItemID, err))
		}
		u.logger.Debug(ctx, "photo uploaded", "line_item_id", out.Items[i].LineItemID, "key", key)
		out.Items[i].Photo = key
	}

	if err := u.api.SubmitInspection(ctx, token, out); err != nil {
		return wrap(s.SubmissionID, err)
	}
	return nil
}

func (u *HTTPUploader) uploadPhoto(ctx context.Context, token, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", err
	}

	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = "application/octet-stream"
	}

	slot, err := u.api.PresignPhoto(ctx, token, ct)
	if err != nil {
		return "", err
	}
	if err := u.api.UploadPhoto(ctx, slot.URL, f, fi.Size(), ct); err != nil {
		return "", err
	}
	return slot.Key, nil
}

func wrap(id string, err error) error {
	de := &DeliveryError{SubmissionID: id, Err: err}
	var se *client.StatusError
	if errors.As(err, &se) {
		de.StatusCode = se.StatusCode
	}
	return de
}
