package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/dvi/internal/common"
	"github.com/dmitrijs2005/dvi/internal/models"
	"github.com/dmitrijs2005/dvi/internal/netx"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type loginRequest struct {
	MechanicID int64  `json:"mechanicId"`
	PIN        string `json:"pin"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Login exchanges the mechanic's PIN for an access token.
func (c *HTTPClient) Login(ctx context.Context, mechanicID int64, pin string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", loginRequest{MechanicID: mechanicID, PIN: pin}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: empty token in login response", ErrUnavailable)
	}
	return resp.Token, nil
}

// SubmitInspection posts one inspection. Any 2xx means the backend has it.
func (c *HTTPClient) SubmitInspection(ctx context.Context, token string, s models.Submission) error {
	return c.do(ctx, http.MethodPost, "/api/inspections/submit", token, s, nil)
}

func (c *HTTPClient) LineItems(ctx context.Context, token string, orderID int64) ([]models.LineItem, error) {
	var items []models.LineItem
	path := "/api/line-items/" + url.PathEscape(strconv.FormatInt(orderID, 10))
	if err := c.do(ctx, http.MethodGet, path, token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// WorkOrders lists the open work orders assigned to mechanicID.
func (c *HTTPClient) WorkOrders(ctx context.Context, token string, mechanicID int64) ([]models.WorkOrder, error) {
	var orders []models.WorkOrder
	path := "/api/work-orders/" + url.PathEscape(strconv.FormatInt(mechanicID, 10))
	if err := c.do(ctx, http.MethodGet, path, token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *HTTPClient) Companies(ctx context.Context) ([]models.Company, error) {
	var out []models.Company
	if err := c.do(ctx, http.MethodGet, "/api/companies", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Mechanics lists the mechanics of a company who may sign in on a device.
func (c *HTTPClient) Mechanics(ctx context.Context, companyID int64) ([]models.MechanicInfo, error) {
	var out []models.MechanicInfo
	path := "/api/mechanics/" + url.PathEscape(strconv.FormatInt(companyID, 10))
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PresignPhoto reserves a storage slot for a photo of the given content type.
func (c *HTTPClient) PresignPhoto(ctx context.Context, token, contentType string) (models.PhotoUpload, error) {
	var out models.PhotoUpload
	req := struct {
		ContentType string `json:"contentType"`
	}{contentType}
	if err := c.do(ctx, http.MethodPost, "/api/photos/presign", token, req, &out); err != nil {
		return models.PhotoUpload{}, err
	}
	return out, nil
}

// UploadPhoto PUTs the photo bytes to a presigned URL.
func (c *HTTPClient) UploadPhoto(ctx context.Context, target string, r io.Reader, size int64, contentType string) error {
	err := netx.PutPresigned(ctx, c.http, target, r, size, contentType)
	if err == nil {
		return nil
	}
	var ue *netx.UploadError
	if errors.As(err, &ue) {
		return &StatusError{StatusCode: ue.StatusCode, Message: ue.Body}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var er errorResponse
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &er) == nil && er.Message != "" {
		msg = er.Message
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}
