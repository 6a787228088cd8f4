package firebase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/accomnote/internal/store"
)

// Database is the read/write surface of the hierarchical store. Reads into a
// pointer leave it at its zero value when the path is absent; writes replace
// the value at the path wholesale.
type Database interface {
	Get(ctx context.Context, path store.Path, into any) error
	Set(ctx context.Context, path store.Path, value any) error
}

// AccessTokenSource supplies OAuth2 access tokens for database requests.
type AccessTokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client accesses the Realtime Database over its REST API.
type Client struct {
	client *resty.Client
	tokens AccessTokenSource
	logger zerolog.Logger
}

// NewClient constructs a database client rooted at the given database URL.
func NewClient(databaseURL string, tokens AccessTokenSource, logger zerolog.Logger) *Client {
	cli := resty.New().SetBaseURL(strings.TrimRight(databaseURL, "/"))
	return &Client{
		client: cli,
		tokens: tokens,
		logger: logger.With().Str("component", "rtdb_client").Logger(),
	}
}

// Get reads the value at path into the given pointer. An absent path decodes
// as JSON null and leaves the pointer untouched.
func (c *Client) Get(ctx context.Context, path store.Path, into any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get("/" + path.String() + ".json")
	if err != nil {
		return fmt.Errorf("database get %s: %w", path, err)
	}

	if resp.IsError() {
		return fmt.Errorf("database get %s: status %d", path, resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), into); err != nil {
		return fmt.Errorf("database get %s: decode: %w", path, err)
	}

	return nil
}

// Set replaces the value at path. There is no merge; concurrent writers to
// the same path race and the last write wins.
func (c *Client) Set(ctx context.Context, path store.Path, value any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(value).
		Put("/" + path.String() + ".json")
	if err != nil {
		return fmt.Errorf("database set %s: %w", path, err)
	}

	if resp.IsError() {
		return fmt.Errorf("database set %s: status %d", path, resp.StatusCode())
	}

	c.logger.Debug().Stringer("path", path).Msg("database write")

	return nil
}
