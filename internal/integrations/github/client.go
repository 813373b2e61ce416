// Package github is a small read-only client for the public GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://api.github.com"
	userAgent      = "KusseTechStudio-Portfolio"
)

// ErrInvalidResponse is returned when a 2xx body is not valid JSON.
var ErrInvalidResponse = errors.New("github: invalid response body")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: unexpected status %d", e.Code)
}

type Options struct {
	Token   string
	BaseURL string
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// Client issues requests through a circuit breaker so an unreachable API
// fails fast instead of costing a full timeout per call.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = opts.Timeout

	logger := opts.Logger
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "github",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		// Client errors mean the API is up.
		IsSuccessful: func(err error) bool {
			var status *StatusError
			if errors.As(err, &status) {
				return status.Code < 500
			}
			return err == nil || errors.Is(err, ErrInvalidResponse)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Infof("Circuit breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		http:    httpClient,
		breaker: breaker,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	body, err := c.breaker.Execute(func() (interface{}, error) {
		u := c.baseURL + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		req.Header.Set("User-Agent", userAgent)
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("github request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			io.Copy(io.Discard, resp.Body)
			return nil, &StatusError{Code: resp.StatusCode}
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("github read body: %w", err)
		}
		if !gjson.ValidBytes(data) {
			return nil, ErrInvalidResponse
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

func repoPath(owner, repo string) string {
	return "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo)
}
