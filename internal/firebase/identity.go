package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrEmptyCredentials is returned before any network call when the email or
// password is blank.
var ErrEmptyCredentials = errors.New("email and password are required")

// ProviderError carries the identity provider's own error message so it can
// be surfaced verbatim to the user. The provider is the source of truth for
// why a sign-in or sign-up was rejected; nothing is retried locally.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// Credentials is the result of a successful sign-in.
type Credentials struct {
	UID          string
	IDToken      string
	RefreshToken string
}

// IdentityClient talks to the Firebase Identity Toolkit REST API. Each call is
// a single synchronous request; failures are never retried.
type IdentityClient struct {
	client *resty.Client
	apiKey string
	logger zerolog.Logger
}

// NewIdentityClient constructs a client for the given API base URL and key.
func NewIdentityClient(baseURL, apiKey string, logger zerolog.Logger) *IdentityClient {
	cli := resty.New().SetBaseURL(strings.TrimRight(baseURL, "/"))
	return &IdentityClient{
		client: cli,
		apiKey: apiKey,
		logger: logger.With().Str("component", "identity_client").Logger(),
	}
}

type identityRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type identityResponse struct {
	LocalID      string `json:"localId"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn exchanges an email/password pair for identity credentials.
func (ic *IdentityClient) SignIn(ctx context.Context, email, password string) (Credentials, error) {
	res, err := ic.call(ctx, "accounts:signInWithPassword", email, password)
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{
		UID:          res.LocalID,
		IDToken:      res.IDToken,
		RefreshToken: res.RefreshToken,
	}, nil
}

// SignUp creates a new identity and returns its uid.
func (ic *IdentityClient) SignUp(ctx context.Context, email, password string) (string, error) {
	res, err := ic.call(ctx, "accounts:signUp", email, password)
	if err != nil {
		return "", err
	}

	return res.LocalID, nil
}

func (ic *IdentityClient) call(ctx context.Context, action, email, password string) (identityResponse, error) {
	if email == "" || password == "" {
		return identityResponse{}, ErrEmptyCredentials
	}

	var res identityResponse
	resp, err := ic.client.R().
		SetContext(ctx).
		SetQueryParam("key", ic.apiKey).
		SetBody(identityRequest{Email: email, Password: password, ReturnSecureToken: true}).
		SetResult(&res).
		SetError(&res).
		Post("/" + action)
	if err != nil {
		return identityResponse{}, fmt.Errorf("identity provider request: %w", err)
	}

	if resp.IsError() || res.Error != nil {
		message := "identity provider rejected the request"
		if res.Error != nil && res.Error.Message != "" {
			message = res.Error.Message
		}
		ic.logger.Warn().Str("action", action).Str("reason", message).Msg("identity request rejected")
		return identityResponse{}, &ProviderError{Message: message}
	}

	if res.LocalID == "" {
		return identityResponse{}, fmt.Errorf("identity provider returned no uid")
	}

	return res, nil
}
