package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultHTTPTimeout = 10 * time.Second
	maxResponseSize    = 10 << 20
)

var (
	ErrRequestTimeout  = errors.New("request timeout")
	ErrInvalidResponse = errors.New("invalid response")
)

type HTTPStatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected http status %d (%s) from %s", e.StatusCode, e.Status, e.URL)
}

type HTTPOptions struct {
	Client  *http.Client
	Timeout time.Duration
	Headers map[string]string
}

type HTTPOption func(*HTTPOptions)

func WithHTTPClient(client *http.Client) HTTPOption {
	return func(o *HTTPOptions) {
		o.Client = client
	}
}

func WithHTTPTimeout(timeout time.Duration) HTTPOption {
	return func(o *HTTPOptions) {
		o.Timeout = timeout
	}
}

func WithHTTPHeader(key, value string) HTTPOption {
	return func(o *HTTPOptions) {
		if o.Headers == nil {
			o.Headers = map[string]string{}
		}

		o.Headers[key] = value
	}
}

// HTTPGet executes a GET request bounded by the configured timeout and decodes the json body into T
func HTTPGet[T any](ctx context.Context, requestURL string, opts ...HTTPOption) (T, error) {
	return httpDo[T](ctx, http.MethodGet, requestURL, nil, opts...)
}

// HTTPPost sends body as json and decodes the json response into T
func HTTPPost[T any](ctx context.Context, requestURL string, body any, opts ...HTTPOption) (T, error) {
	return httpDo[T](ctx, http.MethodPost, requestURL, body, opts...)
}

func httpDo[T any](
	ctx context.Context, method string, requestURL string, body any, opts ...HTTPOption,
) (result T, err error) {
	options := HTTPOptions{
		Client:  http.DefaultClient,
		Timeout: DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(&options)
	}

	reqCtx, cancel := context.WithTimeout(ctx, options.Timeout)
	defer cancel()

	var bodyReader io.Reader

	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return result, fmt.Errorf("failed to marshal request body: %w", err)
		}

		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, requestURL, bodyReader)
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range options.Headers {
		req.Header.Set(k, v)
	}

	resp, err := options.Client.Do(req)
	if err != nil {
		return result, wrapTimeout(ctx, reqCtx, options.Timeout, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return result, &HTTPStatusError{
			URL:        requestURL,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
		}
	}

	responseBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return result, wrapTimeout(ctx, reqCtx, options.Timeout, err)
	}

	if err := json.Unmarshal(responseBytes, &result); err != nil {
		return result, fmt.Errorf("%w from %s: %w", ErrInvalidResponse, requestURL, err)
	}

	return result, nil
}

// wrapTimeout reports our own request deadline as ErrRequestTimeout, leaving caller cancellation untouched
func wrapTimeout(parentCtx, reqCtx context.Context, timeout time.Duration, err error) error {
	if parentCtx.Err() == nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %w", ErrRequestTimeout, timeout, err)
	}

	return err
}

// IsRetryableHTTPError returns true for transient failures: timeouts, network errors, 5xx and 429 responses
func IsRetryableHTTPError(err error) bool {
	if err == nil || errors.Is(err, ErrInvalidResponse) {
		return false
	}

	if errors.Is(err, ErrRequestTimeout) {
		return true
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError ||
			statusErr.StatusCode == http.StatusTooManyRequests
	}

	if IsContextDoneErr(err) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error

	return errors.As(err, &urlErr)
}
