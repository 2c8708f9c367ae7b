package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"critspeed/internal/auth"
	"critspeed/internal/config"
	"critspeed/internal/store"
	"critspeed/internal/strava"
)

// AuthStore persists the Strava tokens
type AuthStore interface {
	GetAuth() (*store.Auth, error)
	SaveAuth(*store.Auth) error
	UpdateTokens(accessToken, refreshToken string, expiresAt time.Time) error
}

// Authorizer runs the interactive OAuth flow
type Authorizer func(ctx context.Context, cfg *oauth2.Config, port int, prompt io.Writer) (*auth.Result, error)

// StravaConnector builds authorized Strava clients from stored tokens,
// running the browser flow when there are none
type StravaConnector struct {
	cfg       config.StravaConfig
	store     AuthStore
	authorize Authorizer
	prompt    io.Writer
	logger    *zap.Logger
}

// NewStravaConnector creates a connector that prints OAuth instructions to prompt
func NewStravaConnector(cfg config.StravaConfig, db AuthStore, prompt io.Writer, logger *zap.Logger) *StravaConnector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StravaConnector{
		cfg:       cfg,
		store:     db,
		authorize: auth.Authenticate,
		prompt:    prompt,
		logger:    logger,
	}
}

func (c *StravaConnector) oauthConfig() *oauth2.Config {
	return auth.NewOAuthConfig(auth.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		CallbackPort: c.cfg.CallbackPort,
	})
}

// Authenticate runs the OAuth flow and stores the resulting tokens
func (c *StravaConnector) Authenticate(ctx context.Context) (*store.Auth, error) {
	result, err := c.authorize(ctx, c.oauthConfig(), c.cfg.CallbackPort, c.prompt)
	if err != nil {
		return nil, fmt.Errorf("authentication: %w", err)
	}

	stored := &store.Auth{
		AthleteID:    result.AthleteID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}
	if err := c.store.SaveAuth(stored); err != nil {
		return nil, fmt.Errorf("saving auth: %w", err)
	}

	c.logger.Info("authenticated with Strava", zap.Int64("athlete_id", result.AthleteID))
	return stored, nil
}

// Client returns a client backed by a refreshing token source
func (c *StravaConnector) Client(ctx context.Context) (*strava.Client, error) {
	stored, err := c.store.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Fprintln(c.prompt, "No Strava authorization found. Starting OAuth flow...")
		stored, err = c.Authenticate(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("checking auth: %w", err)
	}

	return strava.NewClient(c.TokenSource(stored)), nil
}

// TokenSource wraps stored tokens so refreshed ones are written back
func (c *StravaConnector) TokenSource(stored *store.Auth) *auth.TokenSource {
	token := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		Expiry:       stored.ExpiresAt,
	}
	return auth.NewTokenSource(c.oauthConfig(), token, func(newToken *oauth2.Token) error {
		c.logger.Debug("refreshed Strava token", zap.Time("expiry", newToken.Expiry))
		return c.store.UpdateTokens(newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
	})
}
