// Package client is a typed HTTP client for the dbzmanager API.
package client

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
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dharsanguruparan/dbzmanager/internal/model"
	"github.com/dharsanguruparan/dbzmanager/internal/signing"
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to one API server.
type Client struct {
	httpClient *http.Client
	server     string
	token      string
}

// New returns a client for server. token may be empty.
func New(server, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		server:     strings.TrimRight(server, "/"),
		token:      token,
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Token returns the bearer token in use.
func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.server+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(payload))
	if json.Unmarshal(payload, &body) == nil {
		switch {
		case body.Error != "":
			msg = body.Error
		case body.Message != "":
			msg = body.Message
		}
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

func (c *Client) request(ctx context.Context, method, path string, in, out any) error {
	var (
		body        io.Reader
		contentType string
	)
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body, contentType = buf, "application/json"
	}
	resp, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// formFile is a local file sent as a multipart file part.
type formFile struct {
	field string
	path  string
}

// requestMultipart streams fields and files as multipart/form-data without
// buffering the files in memory.
func (c *Client) requestMultipart(ctx context.Context, method, path string, fields map[string]string, files []formFile, out any) error {
	for _, f := range files {
		if _, err := os.Stat(f.path); err != nil {
			return fmt.Errorf("%s: %w", f.field, err)
		}
	}
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeParts(mw, fields, files))
	}()

	resp, err := c.do(ctx, method, path, pr, mw.FormDataContentType())
	// Unblocks the writer if the request ended before the body was drained.
	pr.Close()
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func writeParts(mw *multipart.Writer, fields map[string]string, files []formFile) error {
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	for _, f := range files {
		src, err := os.Open(f.path)
		if err != nil {
			return err
		}
		dst, err := mw.CreateFormFile(f.field, filepath.Base(f.path))
		if err == nil {
			_, err = io.Copy(dst, src)
		}
		src.Close()
		if err != nil {
			return err
		}
	}
	return mw.Close()
}

// Signup registers an account and returns its id.
func (c *Client) Signup(ctx context.Context, email, username, password, confirm string) (int64, error) {
	var out struct {
		UserID int64 `json:"userId"`
	}
	err := c.request(ctx, http.MethodPost, "/signup", map[string]string{
		"email": email, "username": username, "password": password, "confirmPassword": confirm,
	}, &out)
	return out.UserID, err
}

// Login exchanges credentials for a token and keeps it on the client.
// identifier is matched against both email and username.
func (c *Client) Login(ctx context.Context, identifier, password string) (string, error) {
	in := map[string]string{"password": password}
	if strings.Contains(identifier, "@") {
		in["email"] = identifier
	} else {
		in["username"] = identifier
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.request(ctx, http.MethodPost, "/login", in, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

// Me returns the identity of the current token.
func (c *Client) Me(ctx context.Context) (signing.Identity, error) {
	var out struct {
		User signing.Identity `json:"user"`
	}
	err := c.request(ctx, http.MethodGet, "/me", nil, &out)
	return out.User, err
}

// FileURLs are the asset URLs attached to an upload.
type FileURLs struct {
	File1 *string `json:"file1"`
	File2 *string `json:"file2"`
}

// UploadInput describes a new upload. File paths are optional.
type UploadInput struct {
	Design     string
	FrontDepth string
	Industry   string
	File1      string
	File2      string
}

// UploadResult is the server's answer to a new upload.
type UploadResult struct {
	Message    string   `json:"message"`
	FileURLs   FileURLs `json:"fileUrls"`
	FileNumber string   `json:"uniqueFileNumber"`
}

func uploadFiles(file1, file2 string) []formFile {
	var files []formFile
	if file1 != "" {
		files = append(files, formFile{field: "file1", path: file1})
	}
	if file2 != "" {
		files = append(files, formFile{field: "file2", path: file2})
	}
	return files
}

// CreateUpload adds a catalog entry.
func (c *Client) CreateUpload(ctx context.Context, in UploadInput) (UploadResult, error) {
	var out UploadResult
	err := c.requestMultipart(ctx, http.MethodPost, "/upload", map[string]string{
		"design": in.Design, "front_depth": in.FrontDepth, "industry": in.Industry,
	}, uploadFiles(in.File1, in.File2), &out)
	return out, err
}

// UploadEdit is a partial edit; nil fields and empty paths are left alone.
type UploadEdit struct {
	Design     *string
	FrontDepth *string
	Industry   *string
	File1      string
	File2      string
}

// EditResult holds the record values after an edit.
type EditResult struct {
	Message       string `json:"message"`
	UpdatedFields struct {
		Design     string   `json:"design"`
		FrontDepth string   `json:"front_depth"`
		Industry   string   `json:"industry"`
		FileURLs   FileURLs `json:"fileUrls"`
	} `json:"updatedFields"`
}

// EditUpload changes the upload with the given file number.
func (c *Client) EditUpload(ctx context.Context, fileNumber string, edit UploadEdit) (EditResult, error) {
	fields := map[string]string{}
	for name, v := range map[string]*string{"design": edit.Design, "front_depth": edit.FrontDepth, "industry": edit.Industry} {
		if v != nil {
			fields[name] = *v
		}
	}
	var out EditResult
	err := c.requestMultipart(ctx, http.MethodPut, "/uploads/"+url.PathEscape(fileNumber), fields, uploadFiles(edit.File1, edit.File2), &out)
	return out, err
}

// DeleteUpload removes an upload and its files.
func (c *Client) DeleteUpload(ctx context.Context, id int64) error {
	return c.request(ctx, http.MethodDelete, "/uploads/"+strconv.FormatInt(id, 10), nil, nil)
}

// ListUploads returns uploads matching f.
func (c *Client) ListUploads(ctx context.Context, f model.UploadFilter) ([]model.Upload, error) {
	q := url.Values{}
	for k, v := range map[string]string{"design": f.Design, "front_depth": f.FrontDepth, "industry": f.Industry} {
		if v != "" {
			q.Set(k, v)
		}
	}
	path := "/uploads"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out struct {
		Uploads []model.Upload `json:"uploads"`
	}
	err := c.request(ctx, http.MethodGet, path, nil, &out)
	return out.Uploads, err
}

// Summary returns upload counts per design and front depth.
func (c *Client) Summary(ctx context.Context) ([]model.DesignDepthCount, error) {
	var out struct {
		Summary []model.DesignDepthCount `json:"summary"`
	}
	err := c.request(ctx, http.MethodGet, "/uploads/summary", nil, &out)
	return out.Summary, err
}

// Counts returns upload counts per design and the overall total.
func (c *Client) Counts(ctx context.Context) ([]model.DesignCount, int64, error) {
	var out struct {
		DesignCounts []model.DesignCount `json:"design_counts"`
		TotalUploads int64               `json:"total_uploads"`
	}
	err := c.request(ctx, http.MethodGet, "/uploads/count", nil, &out)
	return out.DesignCounts, out.TotalUploads, err
}

// Industries returns the distinct industries in the catalog.
func (c *Client) Industries(ctx context.Context) ([]string, error) {
	var out struct {
		Industries []string `json:"industries"`
	}
	err := c.request(ctx, http.MethodGet, "/industries", nil, &out)
	return out.Industries, err
}

// Inquiry is an inquiry as listed, with its download links.
type Inquiry struct {
	model.Inquiry
	FloorPlanDownloadLink *string `json:"floorPlanDownloadLink"`
	LogoFileDownloadLink  *string `json:"logoFileDownloadLink"`
}

// SubmitInquiry sends the inquiry form. fields uses the form's camelCase
// names; floorPlan and logoFiles are optional local paths.
func (c *Client) SubmitInquiry(ctx context.Context, fields map[string]string, floorPlan, logoFiles string) (model.Inquiry, error) {
	var files []formFile
	if floorPlan != "" {
		files = append(files, formFile{field: "floorPlan", path: floorPlan})
	}
	if logoFiles != "" {
		files = append(files, formFile{field: "logoFiles", path: logoFiles})
	}
	var out struct {
		Data model.Inquiry `json:"data"`
	}
	err := c.requestMultipart(ctx, http.MethodPost, "/submit-inquiry", fields, files, &out)
	return out.Data, err
}

// ListInquiries returns every inquiry.
func (c *Client) ListInquiries(ctx context.Context) ([]Inquiry, error) {
	var out struct {
		Data []Inquiry `json:"data"`
	}
	err := c.request(ctx, http.MethodGet, "/get-inquiries", nil, &out)
	return out.Data, err
}

// Directory is a directory as listed, with its download link.
type Directory struct {
	model.Directory
	DocumentDownloadLink *string `json:"documentDownloadLink"`
}

// DirectoryInput describes a new directory. Document is an optional path.
type DirectoryInput struct {
	ExhibitionName string
	Year           string
	Venue          string
	Document       string
}

// AddDirectory stores an exhibition directory.
func (c *Client) AddDirectory(ctx context.Context, in DirectoryInput) (model.Directory, error) {
	var files []formFile
	if in.Document != "" {
		files = append(files, formFile{field: "document", path: in.Document})
	}
	var out struct {
		Data model.Directory `json:"data"`
	}
	err := c.requestMultipart(ctx, http.MethodPost, "/add-directory", map[string]string{
		"exhibitionName": in.ExhibitionName, "year": in.Year, "venue": in.Venue,
	}, files, &out)
	return out.Data, err
}

// ListDirectories returns every directory.
func (c *Client) ListDirectories(ctx context.Context) ([]Directory, error) {
	var out struct {
		Data []Directory `json:"data"`
	}
	err := c.request(ctx, http.MethodGet, "/get-directories", nil, &out)
	return out.Data, err
}

// Download routes for stored attachments.
const (
	InquiryFiles   = "/get-inquiries"
	DirectoryFiles = "/get-directories"
)

// Download streams the attachment named filename from route into w.
func (c *Client) Download(ctx context.Context, route, filename string, w io.Writer) (int64, error) {
	resp, err := c.do(ctx, http.MethodGet, route+"?download="+url.QueryEscape(filename), nil, "")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(w, resp.Body)
}

// EventInput describes a new event. Dates use the YYYY-MM-DD layout.
type EventInput struct {
	ExhibitionName     string   `json:"exhibitionName"`
	StartDate          string   `json:"startDate"`
	EndDate            string   `json:"endDate"`
	Venue              string   `json:"venue"`
	City               string   `json:"city"`
	DirectoryAvailable bool     `json:"directoryAvailable"`
	ExistingClients    []string `json:"existingClients"`
}

// AddEvent records an upcoming exhibition.
func (c *Client) AddEvent(ctx context.Context, in EventInput) error {
	return c.request(ctx, http.MethodPost, "/add-event", in, nil)
}

// ListEvents returns events, latest start date first.
func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	var out struct {
		Events []model.Event `json:"events"`
	}
	err := c.request(ctx, http.MethodGet, "/events", nil, &out)
	return out.Events, err
}
