package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Uploader stores an image (data URI, remote URL or base64 payload) and returns its hosted location.
type Uploader interface {
	Upload(ctx context.Context, data, folder, name string) (*UploadResult, error)
}

// UploadError is returned for non-2xx responses from the image service.
type UploadError struct {
	Status  int
	Message string
}

func (e *UploadError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cloudinary error: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("cloudinary error: %d", e.Status)
}

func (e *UploadError) HTTPStatus() int { return e.Status }

type Credentials struct {
	CloudName string
	APIKey    string
	APISecret string
}

type httpClient struct {
	baseURL string
	creds   Credentials
	client  *http.Client
	now     func() time.Time
	maxWait time.Duration
}

func NewHTTPClient(baseURL string, creds Credentials, timeout time.Duration) Uploader {
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
		maxWait: 5 * time.Second,
	}
}

func (c *httpClient) Upload(ctx context.Context, data, folder, name string) (*UploadResult, error) {
	params := map[string]string{
		"folder":    folder,
		"public_id": name,
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("file", data)
	form.Set("api_key", c.creds.APIKey)
	form.Set("signature", Sign(params, c.creds.APISecret))

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.creds.CloudName)
	var out UploadResult
	if err := c.post(ctx, endpoint, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) post(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		res, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if res.StatusCode >= 400 {
			var body struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			_ = json.NewDecoder(res.Body).Decode(&body)
			uerr := &UploadError{Status: res.StatusCode, Message: body.Error.Message}
			if res.StatusCode < 500 {
				return backoff.Permanent(uerr)
			}
			return uerr
		}
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = c.maxWait
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}

// Sign computes the upload signature: SHA-1 over the sorted "k=v" pairs joined by '&', followed by the secret.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
