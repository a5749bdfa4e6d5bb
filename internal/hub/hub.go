package hub

import (
	"context"
	"strings"
	"time"

	"github.com/imroc/req/v3"
)

const (
	apiWhoAmI = "/api/whoami-v2"
)

// Client is a thin typed wrapper over the Hugging Face Hub HTTP API.
type Client struct {
	http     *req.Client
	endpoint string
}

// New creates a new Hub client.
func New(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")

	client := req.C().
		SetBaseURL(endpoint).
		SetCommonBearerAuthToken(cfg.Token).
		SetCommonRetryCount(3).
		SetCommonRetryFixedInterval(1*time.Second).
		SetUserAgent(UserAgent).
		SetCommonErrorResult(&HubError{}).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	return &Client{
		http:     client,
		endpoint: endpoint,
	}, nil
}

// Endpoint returns the base URL the client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// WhoAmI resolves the identity behind the configured token. Also serves as a
// cheap write-scope probe before any mutating call.
func (c *Client) WhoAmI(ctx context.Context) (apiResp *WhoAmIResponse, err error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetSuccessResult(&apiResp).
		Get(apiWhoAmI)

	if err := handleAPIError(resp, err, "whoami"); err != nil {
		return nil, err
	}

	return apiResp, nil
}
