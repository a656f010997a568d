package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/restynation/buythatworks/pkg/models"
)

// DefaultTimeout bounds each request made by HTTPClient.
const DefaultTimeout = 30 * time.Second

// RejectedError is a non-2xx answer from the server. Message and Details are
// the server's own text.
type RejectedError struct {
	Status  int
	Message string
	Details string
}

func (e *RejectedError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("server rejected request (%d): %s: %s", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("server rejected request (%d): %s", e.Status, e.Message)
}

// UserMessage is the text shown to the user when a create fails. Keywords
// are matched case-sensitively, so the server's own capitalised validation
// messages are shown under the generic prefix.
func (e *RejectedError) UserMessage() string {
	msg := "Failed to create setup"
	text := e.Message + " " + e.Details
	switch {
	case strings.Contains(text, "duplicate key"):
		msg = "A setup with this name already exists"
	case strings.Contains(text, "password"):
		msg = "Invalid password format"
	case strings.Contains(text, "comment"):
		msg = "Comment is required"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

// HTTPClient talks to the setup server's JSON API.
type HTTPClient struct {
	base *url.URL
	http *http.Client
}

// NewHTTPClient returns a client for the server at endpoint, e.g.
// "https://buythat.works". A zero timeout uses DefaultTimeout.
func NewHTTPClient(endpoint string, timeout time.Duration) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("endpoint %q must be an absolute URL", endpoint)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = timeout
	return &HTTPClient{base: base, http: client}, nil
}

func (c *HTTPClient) url(p string) string {
	return c.base.String() + p
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rejected := &RejectedError{Status: resp.StatusCode}
		var body models.ErrorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
			rejected.Message = body.Error
			rejected.Details = body.Details
		} else {
			rejected.Message = strings.TrimSpace(string(raw))
			if rejected.Message == "" {
				rejected.Message = http.StatusText(resp.StatusCode)
			}
		}
		return rejected
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *HTTPClient) postJSON(ctx context.Context, p string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(p), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) get(ctx context.Context, p string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(p), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

// CreateSetup sends the payload once and returns the new setup id.
func (c *HTTPClient) CreateSetup(ctx context.Context, in models.CreateSetupRequest) (string, error) {
	var out models.CreateSetupResponse
	if err := c.postJSON(ctx, "/api/setups", in, &out); err != nil {
		return "", err
	}
	if out.SetupID == "" {
		return "", errors.New("setup created but response carried no setup id")
	}
	return out.SetupID, nil
}

// DeleteSetup soft-deletes a setup. A wrong PIN comes back as a
// *RejectedError with status 403.
func (c *HTTPClient) DeleteSetup(ctx context.Context, setupID, pin string) error {
	var out models.DeleteSetupResponse
	return c.postJSON(ctx, "/api/setups/delete", models.DeleteSetupRequest{SetupID: setupID, Pin: pin}, &out)
}

func (c *HTTPClient) GetSetup(ctx context.Context, setupID string) (models.SetupGraph, error) {
	var out models.SetupGraph
	err := c.get(ctx, "/api/setups/"+url.PathEscape(setupID), &out)
	return out, err
}

// LoadCatalog fetches reference data. It lets HTTPClient act as a catalog.Source.
func (c *HTTPClient) LoadCatalog(ctx context.Context) (models.CatalogData, error) {
	var out models.CatalogData
	err := c.get(ctx, "/api/catalog", &out)
	return out, err
}

// UploadImage stores an image and returns its public URL.
func (c *HTTPClient) UploadImage(ctx context.Context, img Image) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", img.Name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/images"), &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out models.ImageUploadResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
