// Package client is the HTTP implementation of library.Gateway, talking
// to the DocuVault document service's JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/docuvault/internal/library"
)

const defaultTimeout = 30 * time.Second

// Client calls the document service over HTTP. All methods honor the
// passed context; the underlying http.Client additionally enforces a 30s
// timeout so a dead service surfaces as a retryable error instead of a
// hang.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client, e.g. for tests or
// custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client rooted at baseURL, which should include any path
// prefix up to but not including /documents.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListDocuments(ctx context.Context, folderPath string) ([]library.Document, error) {
	u := c.baseURL + "/documents"
	if folderPath != "" {
		u += "?folderPath=" + url.QueryEscape(folderPath)
	}

	var docs []library.Document
	if err := c.getJSON(ctx, u, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *Client) ListFolders(ctx context.Context) ([]library.Folder, error) {
	var folders []library.Folder
	if err := c.getJSON(ctx, c.baseURL+"/documents/folders", &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

func (c *Client) CreateFolder(ctx context.Context, folderName, createdBy string) (library.Folder, error) {
	body := map[string]string{
		"folderName": folderName,
		"createdBy":  createdBy,
	}
	var folder library.Folder
	if err := c.postJSON(ctx, c.baseURL+"/documents/folders", body, &folder); err != nil {
		return library.Folder{}, err
	}
	return folder, nil
}

func (c *Client) Upload(ctx context.Context, in library.UploadInput) (library.Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", in.FileName)
	if err != nil {
		return library.Document{}, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, in.Content); err != nil {
		return library.Document{}, fmt.Errorf("read upload content: %w", err)
	}

	fields := map[string]string{
		"name":         in.Name,
		"description":  in.Description,
		"category":     in.Category,
		"folderPath":   in.FolderPath,
		"uploadedBy":   in.UploadedBy,
		"uploaderName": in.UploaderName,
	}
	if in.IsPublic {
		fields["isPublic"] = "true"
	}
	for key, val := range fields {
		if val == "" {
			continue
		}
		if err := mw.WriteField(key, val); err != nil {
			return library.Document{}, fmt.Errorf("build upload form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return library.Document{}, fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/upload", &buf)
	if err != nil {
		return library.Document{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var doc library.Document
	if err := c.do(req, &doc); err != nil {
		return library.Document{}, err
	}
	return doc, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) Download(ctx context.Context, id string) (library.Document, error) {
	u := c.baseURL + "/documents/download?id=" + url.QueryEscape(id)
	var doc library.Document
	if err := c.getJSON(ctx, u, &doc); err != nil {
		return library.Document{}, err
	}
	return doc, nil
}

func (c *Client) Move(ctx context.Context, documentIDs []string, targetFolder string) (int64, error) {
	body := map[string]any{
		"documentIds":  documentIDs,
		"targetFolder": targetFolder,
	}
	var result struct {
		MovedCount int64 `json:"movedCount"`
	}
	if err := c.postJSON(ctx, c.baseURL+"/documents/move", body, &result); err != nil {
		return 0, err
	}
	return result.MovedCount, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do executes the request, mapping transport failures and non-2xx
// responses to *library.GatewayError. When out is non-nil a 2xx body is
// decoded into it.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &library.GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &library.GatewayError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body, resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &library.GatewayError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// errorMessage extracts the {"error": msg} body the service uses, falling
// back to the status text.
func errorMessage(body io.Reader, status int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return http.StatusText(status)
}

var _ library.Gateway = (*Client)(nil)
