package firebase

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

const databaseScope = "https://www.googleapis.com/auth/firebase.database https://www.googleapis.com/auth/userinfo.email"

// serviceAccount is the subset of the Google credentials file the token
// source needs.
type serviceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// TokenSource mints OAuth2 access tokens for the Realtime Database from a
// service-account credentials file. Tokens are cached until shortly before
// expiry; minting is serialized so concurrent requests share one exchange.
type TokenSource struct {
	client   *resty.Client
	email    string
	key      *rsa.PrivateKey
	tokenURI string

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewTokenSource reads and parses the credentials file. A missing or
// malformed file is a startup error.
func NewTokenSource(credentialsFile string) (*TokenSource, error) {
	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read service-account credentials: %w", err)
	}

	var account serviceAccount
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, fmt.Errorf("parse service-account credentials: %w", err)
	}

	if account.ClientEmail == "" || account.PrivateKey == "" {
		return nil, fmt.Errorf("service-account credentials missing client_email or private_key")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(account.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parse service-account private key: %w", err)
	}

	tokenURI := account.TokenURI
	if tokenURI == "" {
		tokenURI = "https://oauth2.googleapis.com/token"
	}

	return &TokenSource{
		client:   resty.New(),
		email:    account.ClientEmail,
		key:      key,
		tokenURI: tokenURI,
	}, nil
}

// Token returns a valid access token, minting a fresh one when the cached
// token is absent or about to expire.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Now().Before(ts.expires.Add(-time.Minute)) {
		return ts.token, nil
	}

	assertion, err := ts.assertion()
	if err != nil {
		return "", err
	}

	var res struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	resp, err := ts.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type": "urn:ietf:params:oauth:grant-type:jwt-bearer",
			"assertion":  assertion,
		}).
		SetResult(&res).
		Post(ts.tokenURI)
	if err != nil {
		return "", fmt.Errorf("token exchange request: %w", err)
	}

	if resp.IsError() || res.AccessToken == "" {
		return "", fmt.Errorf("token exchange failed: %s", strings.TrimSpace(resp.String()))
	}

	ts.token = res.AccessToken
	ts.expires = time.Now().Add(time.Duration(res.ExpiresIn) * time.Second)

	return ts.token, nil
}

func (ts *TokenSource) assertion() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   ts.email,
		"scope": databaseScope,
		"aud":   ts.tokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(ts.key)
	if err != nil {
		return "", fmt.Errorf("sign token assertion: %w", err)
	}

	return signed, nil
}
