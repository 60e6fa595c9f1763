// Package media uploads images to a Cloudinary-compatible host. The upload
// API is a single signed multipart POST, spoken directly over net/http.
package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Configured() bool
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
}

// CloudinaryClient implements Uploader against the image upload endpoint.
type CloudinaryClient struct {
	cloudName string
	apiKey    string
	apiSecret string
	http      *http.Client
	now       func() time.Time
	baseURL   string
}

// NewCloudinary builds a client; leave any credential empty to get an
// unconfigured client that callers should skip.
func NewCloudinary(cloudName, apiKey, apiSecret string) *CloudinaryClient {
	return &CloudinaryClient{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		http:      &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
		baseURL:   "https://api.cloudinary.com",
	}
}

// Configured reports whether all credentials are present.
func (c *CloudinaryClient) Configured() bool {
	return c.cloudName != "" && c.apiKey != "" && c.apiSecret != ""
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts the file as a signed multipart request and returns the
// hosted secure URL.
func (c *CloudinaryClient) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	signature := c.sign("timestamp=" + timestamp)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("media: build form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("media: read file: %w", err)
	}
	_ = w.WriteField("api_key", c.apiKey)
	_ = w.WriteField("timestamp", timestamp)
	_ = w.WriteField("signature", signature)
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("media: finalize form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("media: build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("media: upload: %w", err)
	}
	defer resp.Body.Close()

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("media: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := decoded.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("media: upload rejected: %s", msg)
	}
	return decoded.SecureURL, nil
}

// sign computes the Cloudinary request signature: SHA-1 over the sorted
// parameter string with the API secret appended.
func (c *CloudinaryClient) sign(params string) string {
	sum := sha1.Sum([]byte(params + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
