package voc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/autopeer-io/vocbridge/pkg/log"
)

// Transport performs authenticated JSON calls against the VOC backend.
// ref is either relative to the service root or an absolute URL, which is
// how the backend hands out vehicle and call-state handles.
type Transport interface {
	Get(ctx context.Context, ref string, out any) error
	Post(ctx context.Context, ref string, body any, out any) error
}

// ClientConfig holds the settings for NewClient.
type ClientConfig struct {
	// BaseURL overrides the region derived service root.
	BaseURL  string
	Region   string
	Username string
	Password string
	Timeout  time.Duration
}

// ServiceURL returns the customer API root for a region. An empty region is
// the EU/default endpoint.
func ServiceURL(region string) string {
	host := "vocapi"
	if region = strings.TrimSpace(region); region != "" {
		host += "-" + strings.ToLower(region)
	}
	return fmt.Sprintf("https://%s.wirelesscar.net/customerapi/rest/v3.0/", host)
}

type client struct {
	baseURL string
	auth    string
	http    *http.Client
}

var _ Transport = (*client)(nil)

// NewClient creates a Transport talking to the VOC customer API.
func NewClient(cfg *ClientConfig) (Transport, error) {
	if cfg == nil || cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrConfiguration)
	}

	base := cfg.BaseURL
	if base == "" {
		base = ServiceURL(cfg.Region)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &client{
		baseURL: base,
		auth:    "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.Username+":"+cfg.Password)),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *client) Get(ctx context.Context, ref string, out any) error {
	return c.do(ctx, http.MethodGet, ref, nil, out)
}

func (c *client) Post(ctx context.Context, ref string, body any, out any) error {
	payload := []byte("{}")
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode body: %v", ErrTransport, err)
		}
		payload = b
	}
	return c.do(ctx, http.MethodPost, ref, payload, out)
}

func (c *client) resolve(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.baseURL + strings.TrimPrefix(ref, "/")
}

func (c *client) do(ctx context.Context, method, ref string, payload []byte, out any) error {
	url := c.resolve(ref)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	c.setHeaders(req)

	log.Debug("VOC request", "method", method, "url", url)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s returned %s", ErrTransport, method, url, resp.Status)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrTransport, url, err)
	}
	return nil
}

// setHeaders mimics the official Android app; the backend rejects requests
// without the X-* originator headers.
func (c *client) setHeaders(req *http.Request) {
	req.Header.Set("X-Device-Id", "Device")
	req.Header.Set("X-OS-Type", "Android")
	req.Header.Set("X-Originator-Type", "App")
	req.Header.Set("X-OS-Version", "22")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Authorization", c.auth)
}

// Join appends a path below a vehicle handle.
func Join(vehicleURL, path string) string {
	return strings.TrimSuffix(vehicleURL, "/") + "/" + strings.TrimPrefix(path, "/")
}
