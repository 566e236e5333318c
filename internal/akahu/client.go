// Package akahu fetches account data from the Akahu API.
package akahu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/rs/zerolog"
)

// Environment variables holding the credentials.
const (
	UserTokenEnv = "AKAHU_USER_TOKEN"
	AppTokenEnv  = "AKAHU_APP_TOKEN"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.akahu.io/v1"

const maxErrorBody = 512

// Options configures a Client.
type Options struct {
	BaseURL   string
	UserToken string
	AppToken  string
	Timeout   time.Duration

	// HTTPClient replaces the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client calls the accounts endpoint. It never retries.
type Client struct {
	baseURL    string
	userToken  string
	appToken   string
	httpClient *http.Client
}

// NewClient returns a Client, or *domain.AuthConfigurationError when a credential is missing.
func NewClient(opts Options) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userToken:  opts.UserToken,
		appToken:   opts.AppToken,
		httpClient: opts.HTTPClient,
	}

	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: opts.Timeout}
	}

	if _, err := c.headers(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) headers() (http.Header, error) {
	var missing []string

	if c.userToken == "" {
		missing = append(missing, UserTokenEnv)
	}

	if c.appToken == "" {
		missing = append(missing, AppTokenEnv)
	}

	if len(missing) > 0 {
		return nil, &domain.AuthConfigurationError{Missing: missing}
	}

	h := make(http.Header)
	h.Set("Authorization", "Bearer "+c.userToken)
	h.Set("X-Akahu-Id", c.appToken)
	h.Set("Accept", "application/json")

	return h, nil
}

// FetchAccounts lists all accounts the user token has access to.
//
// Transport failures, non-2xx answers and undecodable bodies return *domain.FetchError.
func (c *Client) FetchAccounts(ctx context.Context) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)
	url := c.baseURL + "/accounts"

	headers, err := c.headers()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}

	req.Header = headers

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Error().Err(err).Str("url", url).Msg("accounts request failed")
		return nil, &domain.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}

		l.Error().Int("status", resp.StatusCode).Str("url", url).Msg("accounts request rejected")

		return nil, &domain.FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s: %s", http.StatusText(resp.StatusCode), strings.TrimSpace(string(body))),
		}
	}

	parsed, err := parseAccounts(body)
	if err != nil {
		if errors.Is(err, errEmptyBody) {
			l.Warn().Str("url", url).Msg("empty accounts response")
		}

		return nil, &domain.FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode accounts: %w", err)}
	}

	for _, sk := range parsed.skipped {
		l.Warn().Err(sk.err).Int("index", sk.index).Msg("skipping undecodable account")
	}

	l.Debug().
		Str("shape", parsed.shape.String()).
		Int("accounts", len(parsed.accounts)).
		Int("skipped", len(parsed.skipped)).
		Msg("accounts fetched")

	return parsed.accounts, nil
}
