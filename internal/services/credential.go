package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/vibevault/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const spotifyTokenURL = "https://accounts.spotify.com/api/token"

// Credential owns the app-level bearer token obtained through the client credentials grant.
//
// The token is cached until it expires and is never handed to gateway clients.
// Concurrent callers share one refresh.
type Credential struct {
	config         *clientcredentials.Config
	httpClient     *http.Client
	mu             sync.Mutex
	token          *oauth2.Token
	onTokenRefresh func(*oauth2.Token)
}

// NewCredential creates a [Credential] for the given client id and secret.
//
// Missing values are not rejected here; they surface from [Credential.Acquire] on first use.
func NewCredential(clientID, clientSecret, tokenURL string, httpClient *http.Client) *Credential {
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	return &Credential{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: httpClient,
	}
}

// SetTokenRefreshCallback registers fn to be called with every newly fetched token.
func (c *Credential) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTokenRefresh = fn
}

// Acquire returns a valid access token, fetching a new one when none is cached or the cached one expired.
func (c *Credential) Acquire(ctx context.Context) (string, error) {
	if c.config.ClientID == "" || c.config.ClientSecret == "" {
		return "", fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.Valid() {
		return c.token.AccessToken, nil
	}

	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}

	token, err := c.config.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: client credentials grant: %v", shared.ErrAuthFailed, err)
	}

	c.token = token
	if c.onTokenRefresh != nil {
		c.onTokenRefresh(token)
	}

	return token.AccessToken, nil
}

// Invalidate drops the cached token so the next [Credential.Acquire] fetches a fresh one.
func (c *Credential) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = nil
}
