package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muurk/artframe/internal/logging"
	"github.com/muurk/artframe/internal/version"
)

const (
	// DefaultBaseURL is where the backend listens unless told otherwise
	DefaultBaseURL = "http://localhost:5000"

	// DefaultTimeout is the request budget for most endpoints
	DefaultTimeout = 60 * time.Second

	// DefaultFolderTimeout covers a human answering the native folder dialog
	DefaultFolderTimeout = 120 * time.Second

	// DefaultListTimeout is the budget for listing local images
	DefaultListTimeout = 30 * time.Second

	// ImagesPath is where the backend serves image files
	ImagesPath = "/images"

	// FolderTimeoutMessage replaces the transport text when the folder dialog times out
	FolderTimeoutMessage = "Folder selection timed out. Please try again."

	// RequestIDHeader carries a per-request correlation ID
	RequestIDHeader = "X-Request-ID"

	maxResponseSize = 10 << 20
)

var fallbackMessages = map[Operation]string{
	OpSelectFolder:     "Failed to select folder",
	OpGeneratePrompt:   "Failed to generate prompt",
	OpGenerateImage:    "Failed to generate image",
	OpPushToTV:         "Failed to push to TV",
	OpListLocalImages:  "Failed to fetch local images",
	OpCheckTVIP:        "TV connection failed",
	OpTestTVConnection: "Failed to connect to TV",
	OpSaveSettings:     "Failed to save settings",
}

// FallbackMessage returns the generic failure text for op.
func FallbackMessage(op Operation) string {
	if msg, ok := fallbackMessages[op]; ok {
		return msg
	}
	return GenericErrorMessage
}

// Client talks to the artframe backend over HTTP
type Client struct {
	// BaseURL is the API origin (e.g., "http://localhost:5000")
	BaseURL string

	// HTTPClient is the underlying HTTP client. Budgets are applied per
	// request through the context, so its own Timeout is left at zero.
	HTTPClient *http.Client

	// Timeout is the default per-request budget
	Timeout time.Duration

	// FolderTimeout is the select-folder budget
	FolderTimeout time.Duration

	// ListTimeout is the list-local-images budget
	ListTimeout time.Duration

	// UserAgent is sent on every request
	UserAgent string
}

// NewClient creates a client for the backend at baseURL. An empty baseURL
// selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTPClient:    &http.Client{},
		Timeout:       DefaultTimeout,
		FolderTimeout: DefaultFolderTimeout,
		ListTimeout:   DefaultListTimeout,
		UserAgent:     version.UserAgent(),
	}
}

// SetTimeout sets the default request budget
func (c *Client) SetTimeout(timeout time.Duration) {
	c.Timeout = timeout
}

func (c *Client) budget(op Operation) time.Duration {
	switch op {
	case OpSelectFolder:
		return c.FolderTimeout
	case OpListLocalImages:
		return c.ListTimeout
	default:
		return c.Timeout
	}
}

// ResolveURL turns an image reference into an absolute URL against the API
// origin. Absolute references are returned unchanged.
func (c *Client) ResolveURL(ref string) string {
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return c.BaseURL + ref
}

// SelectFolder asks the backend to open its native folder dialog and
// returns the chosen path.
func (c *Client) SelectFolder(ctx context.Context) (string, error) {
	var resp FolderResponse
	if err := c.do(ctx, OpSelectFolder, http.MethodPost, nil, &resp); err != nil {
		if IsTimeout(err) {
			err.(*Error).Message = FolderTimeoutMessage
		}
		return "", err
	}
	return resp.FolderPath, nil
}

// GeneratePrompt returns a freshly generated art prompt.
func (c *Client) GeneratePrompt(ctx context.Context) (string, error) {
	var resp PromptResponse
	if err := c.do(ctx, OpGeneratePrompt, http.MethodPost, nil, &resp); err != nil {
		return "", err
	}
	return resp.Prompt, nil
}

// GenerateImage renders prompt and returns the image reference.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	var resp ImageResponse
	if err := c.do(ctx, OpGenerateImage, http.MethodPost, promptRequest{Prompt: prompt}, &resp); err != nil {
		return "", err
	}
	return resp.ImageURL, nil
}

// PushToTV uploads the referenced image to the TV at tvIP and selects it.
func (c *Client) PushToTV(ctx context.Context, imageURL, tvIP string) error {
	var resp StatusResponse
	return c.do(ctx, OpPushToTV, http.MethodPost, pushRequest{ImageURL: imageURL, TVIP: tvIP}, &resp)
}

// ListLocalImages returns the file names in the backend's image folder, in
// the backend's order.
func (c *Client) ListLocalImages(ctx context.Context) ([]string, error) {
	var resp ImageListResponse
	if err := c.do(ctx, OpListLocalImages, http.MethodGet, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Images, nil
}

// CheckTVIP asks the backend whether the TV at tvIP responds.
func (c *Client) CheckTVIP(ctx context.Context, tvIP string) error {
	var resp StatusResponse
	return c.do(ctx, OpCheckTVIP, http.MethodPost, tvRequest{TVIP: tvIP}, &resp)
}

// TestTVConnection asks the backend to open a session with the TV at tvIP.
func (c *Client) TestTVConnection(ctx context.Context, tvIP string) error {
	var resp StatusResponse
	return c.do(ctx, OpTestTVConnection, http.MethodPost, tvRequest{TVIP: tvIP}, &resp)
}

// SaveSettings mirrors the settings to the backend.
func (c *Client) SaveSettings(ctx context.Context, tvIP, imageFolder string) error {
	var resp StatusResponse
	return c.do(ctx, OpSaveSettings, http.MethodPost, settingsRequest{TVIP: tvIP, ImageFolder: imageFolder}, &resp)
}

// do performs one request and normalizes every failure into *Error. The
// returned error is either nil or an *Error.
func (c *Client) do(ctx context.Context, op Operation, method string, body any, out response) error {
	budget := c.budget(op)
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Type: ErrTypeUnknown, Op: op, Message: FallbackMessage(op), Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+op.Path(), reqBody)
	if err != nil {
		return &Error{Type: ErrTypeUnknown, Op: op, Message: FallbackMessage(op), Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, requestID)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	logging.LogRequest(requestID, method, op.Path())
	start := time.Now()

	status, apiErr := c.roundTrip(req, op, budget, out)
	if apiErr != nil {
		logging.LogResponse(requestID, op.Path(), status, time.Since(start), apiErr)
		return apiErr
	}
	logging.LogResponse(requestID, op.Path(), status, time.Since(start), nil)
	return nil
}

// roundTrip returns the HTTP status (0 when no response arrived) and the
// normalized failure, if any.
func (c *Client) roundTrip(req *http.Request, op Operation, budget time.Duration, out response) (int, *Error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, classifyTransport(op, err, budget)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		apiErr := classifyTransport(op, err, budget)
		apiErr.StatusCode = resp.StatusCode
		return resp.StatusCode, apiErr
	}

	ok2xx := resp.StatusCode >= 200 && resp.StatusCode < 300
	if err := json.Unmarshal(data, out); err != nil {
		if !ok2xx {
			return resp.StatusCode, &Error{
				Type:       ErrTypeHTTP,
				Op:         op,
				Message:    fmt.Sprintf("%s (HTTP %d)", FallbackMessage(op), resp.StatusCode),
				StatusCode: resp.StatusCode,
				Err:        err,
			}
		}
		apiErr := NewParseError(op, "malformed response", err)
		apiErr.StatusCode = resp.StatusCode
		return resp.StatusCode, apiErr
	}

	env := out.envelope()
	if !ok2xx || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = FallbackMessage(op)
		}
		return resp.StatusCode, &Error{
			Type:       ErrTypeBackend,
			Op:         op,
			Message:    msg,
			StatusCode: resp.StatusCode,
		}
	}

	if v, ok := out.(validator); ok && !v.validate() {
		apiErr := NewParseError(op, "malformed response", nil)
		apiErr.StatusCode = resp.StatusCode
		return resp.StatusCode, apiErr
	}

	return resp.StatusCode, nil
}
