// Package gateway implements the client for the remote image-hosting API.
// It is the only network-facing layer: listing the gallery tree, uploading
// files into product directories, and deleting individual files.
//
// Every operation requires a bearer token. A missing token short-circuits
// locally with an AuthenticationError before any network call is made.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/stylerack/stylerack/internal/transport"
	"github.com/stylerack/stylerack/pkg/constants"
	"github.com/stylerack/stylerack/pkg/errors"
	"github.com/stylerack/stylerack/pkg/logging"
)

// Listing is the raw result of a manage/list call.
type Listing struct {
	Directories []string `json:"directories"`
	Files       []File   `json:"files"`
}

// File is one file entry in a listing. Name is the full remote path with
// '/'-separated segments.
type File struct {
	Name string `json:"name"`
}

// deleteResponse is the wire shape of a delete call's result.
type deleteResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Client talks to the image host API. Uploads run on their own transport
// with a longer timeout: a multipart body over a slow link can legitimately
// outlive the listing/delete request budget.
type Client struct {
	baseURL         string
	token           string
	transport       *transport.Client
	uploadTransport *transport.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout for listing and delete
// calls. Upload requests keep their dedicated timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.transport = transport.NewWithTimeout(&transport.BearerAuth{Token: c.token}, d)
	}
}

// New creates a gateway client for the given host and bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	auth := &transport.BearerAuth{Token: token}
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		token:           token,
		transport:       transport.New(auth),
		uploadTransport: transport.NewWithTimeout(auth, constants.UploadTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the host base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FileURL returns the public URL of a hosted file.
func (c *Client) FileURL(remotePath string) string {
	return c.baseURL + "/file/" + escapePath(remotePath)
}

// requireToken rejects operations locally when no credential is set.
func (c *Client) requireToken() error {
	if strings.TrimSpace(c.token) == "" {
		return errors.NewAuthenticationError("bearer",
			"API token not set; configure it before managing the gallery", errors.ErrTokenRequired)
	}
	return nil
}

// List fetches the directory and file listing under dir. With recursive
// set, deeply nested paths are returned with '/'-separated segments.
func (c *Client) List(ctx context.Context, dir string, recursive bool) (*Listing, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("dir", dir)
	q.Set("count", strconv.Itoa(constants.ListCountAll))
	q.Set("recursive", strconv.FormatBool(recursive))
	endpoint := c.baseURL + "/api/manage/list?" + q.Encode()

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, &errors.APIError{
			Endpoint: "/api/manage/list",
			Message:  "request failed",
			Err:      err,
		}
	}

	var listing Listing
	if err := transport.DecodeResponse(resp, "/api/manage/list", &listing); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Str("dir", dir).
		Int("directories", len(listing.Directories)).
		Int("files", len(listing.Files)).
		Msg("fetched gallery listing")
	return &listing, nil
}

// Upload sends one file into the target remote directory as a multipart
// body. Uploads are not idempotent on the host side, so the caller must
// never auto-retry a failed upload.
func (c *Client) Upload(ctx context.Context, folder, filename string, r io.Reader) error {
	if err := c.requireToken(); err != nil {
		return err
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(constants.UploadFieldName, filename)
	if err != nil {
		return errors.WrapIO("write", "multipart body", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return errors.WrapIO("read", filename, err)
	}
	if err := w.Close(); err != nil {
		return errors.WrapIO("close", "multipart body", err)
	}

	endpoint := c.baseURL + "/upload?uploadFolder=" + url.QueryEscape(folder)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return errors.WrapIO("create", "POST /upload", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.uploadTransport.Do(req)
	if err != nil {
		return &errors.APIError{
			Endpoint: "/upload",
			Message:  fmt.Sprintf("upload of %s failed", filename),
			Err:      err,
		}
	}
	return transport.DecodeResponse(resp, "/upload", nil)
}

// Delete removes one remote file by full path. Deleting the last image of
// a product is a client-side cascade, not a server-side directory delete.
func (c *Client) Delete(ctx context.Context, fullPath string) error {
	if err := c.requireToken(); err != nil {
		return err
	}

	endpoint := c.baseURL + "/api/manage/delete/" + escapePath(fullPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return errors.WrapIO("create", "DELETE "+fullPath, err)
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		return &errors.APIError{
			Endpoint: "/api/manage/delete",
			Message:  fmt.Sprintf("delete of %s failed", fullPath),
			Err:      err,
		}
	}

	var result deleteResponse
	if err := transport.DecodeResponse(resp, "/api/manage/delete", &result); err != nil {
		return err
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "unknown delete error"
		}
		return errors.NewAPIError("/api/manage/delete", resp.StatusCode, msg)
	}

	logging.Ctx(ctx).Info().Str("path", fullPath).Msg("deleted remote file")
	return nil
}

// escapePath percent-escapes a remote path while keeping '/' separators.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
