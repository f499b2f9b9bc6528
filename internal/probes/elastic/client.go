package elastic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/jandubois/servicecheck/internal/probe"
	"github.com/tidwall/gjson"
)

// Client issues read-only GET requests against one Elasticsearch node.
// Errors it returns are *probe.Failure values classified by cause.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the node at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Text returns the response body with trailing whitespace removed.
func (c *Client) Text(ctx context.Context, path string) (string, error) {
	body, err := c.get(ctx, path, "text/plain")
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(body), " \t\r\n"), nil
}

// JSON returns the parsed response document.
func (c *Client) JSON(ctx context.Context, path string) (gjson.Result, error) {
	body, err := c.get(ctx, path, "application/json")
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, probe.Failf(probe.StatusUnknown, "Invalid HTTP response: %s did not return JSON", path)
	}
	return gjson.ParseBytes(body), nil
}

// get fetches path. The _cat APIs pick their output format from accept.
func (c *Client) get(ctx context.Context, path, accept string) ([]byte, error) {
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, probe.Wrap(probe.StatusUnknown, err, "Invalid request")
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", "servicecheck")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, probe.Failf(probe.StatusUnknown, "Invalid HTTP response: GET %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(err)
	}
	return body, nil
}

// classify maps a transport error to a verdict: timeouts are unknown,
// anything else means the node could not be reached and is critical.
func classify(err error) *probe.Failure {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return probe.Wrap(probe.StatusUnknown, err, "Timeout request")
	}
	return &probe.Failure{Status: probe.StatusCritical, Message: fmt.Sprint(err), Err: err}
}
