package hub

const (
	DefaultEndpoint = "https://huggingface.co"
)

// Config is the configuration for the Hub client.
type Config struct {
	Endpoint string // Endpoint is required
	Token    string // Token is a write-scoped access token, required
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrNoEndpoint
	}

	if c.Token == "" {
		return ErrNoToken
	}

	return nil
}
