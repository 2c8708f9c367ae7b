package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// ExpiryBuffer is how early a token is refreshed before it expires
const ExpiryBuffer = 60 * time.Second

// TokenSource refreshes tokens through the OAuth config and hands each new
// token to onRefresh so it can be persisted
type TokenSource struct {
	config    *oauth2.Config
	token     *oauth2.Token
	onRefresh func(*oauth2.Token) error
	mu        sync.Mutex
}

// NewTokenSource creates a TokenSource starting from token
func NewTokenSource(cfg *oauth2.Config, token *oauth2.Token, onRefresh func(*oauth2.Token) error) *TokenSource {
	return &TokenSource{
		config:    cfg,
		token:     token,
		onRefresh: onRefresh,
	}
}

// Token returns a valid token, refreshing if necessary
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if time.Until(ts.token.Expiry) > ExpiryBuffer {
		return ts.token, nil
	}

	// Expire the copy handed to oauth2 so it refreshes inside our buffer too
	stale := *ts.token
	stale.Expiry = time.Now().Add(-time.Second)

	newToken, err := ts.config.TokenSource(context.Background(), &stale).Token()
	if err != nil {
		return nil, err
	}

	if ts.onRefresh != nil {
		if err := ts.onRefresh(newToken); err != nil {
			return nil, err
		}
	}

	ts.token = newToken
	return newToken, nil
}

// IsExpired reports whether the current token is inside the expiry buffer
func (ts *TokenSource) IsExpired() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return time.Until(ts.token.Expiry) <= ExpiryBuffer
}
