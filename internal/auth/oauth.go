package auth

import (
	"fmt"

	"golang.org/x/oauth2"
)

const (
	// Strava OAuth endpoints
	AuthURL  = "https://www.strava.com/oauth/authorize"
	TokenURL = "https://www.strava.com/oauth/token"
)

// Scopes needed to list activities and their laps (Strava uses comma-separated scopes)
var Scopes = []string{
	"read,activity:read_all",
}

// Config holds the OAuth client credentials
type Config struct {
	ClientID     string
	ClientSecret string
	CallbackPort int
}

// RedirectURL is the local callback address for port
func RedirectURL(port int) string {
	return fmt.Sprintf("http://localhost:%d/callback", port)
}

// NewOAuthConfig creates an oauth2.Config from our Config
func NewOAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  AuthURL,
			TokenURL: TokenURL,
		},
		RedirectURL: RedirectURL(cfg.CallbackPort),
		Scopes:      Scopes,
	}
}

// Result contains the token and athlete from a completed authorization
type Result struct {
	Token     *oauth2.Token
	AthleteID int64
}

// ExtractAthleteID reads the athlete id Strava embeds in the token response
func ExtractAthleteID(token *oauth2.Token) int64 {
	if athlete, ok := token.Extra("athlete").(map[string]interface{}); ok {
		if id, ok := athlete["id"].(float64); ok {
			return int64(id)
		}
	}
	return 0
}
