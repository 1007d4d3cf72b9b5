package registry

import (
	"fmt"
	"net/http"
	"os"

	"github.com/lildude/rcsync/internal/cache"
	"golang.org/x/oauth2"
)

// StravaOauthConfig is Strava's OAuth application configuration, populated
// from the environment.
var StravaOauthConfig = &oauth2.Config{
	ClientID:     os.Getenv("STRAVA_CLIENT_ID"),
	ClientSecret: os.Getenv("STRAVA_CLIENT_SECRET"),
	Endpoint: oauth2.Endpoint{
		AuthURL:  "https://www.strava.com/oauth/authorize",
		TokenURL: "https://www.strava.com/oauth/token",
	},
	RedirectURL: os.Getenv("STRAVA_REDIRECT_URI"),
	Scopes:      []string{"activity:write,activity:read_all"},
}

// Strava completes Strava's authorization-code exchange on behalf of the
// linking handler.
type Strava struct {
	oauth *oauth2.Config
	cache cache.Cache
}

// NewStrava returns the Strava provider. The cache, when non-nil, keeps the
// freshest token available to the uploader between exchanges.
func NewStrava(oauth *oauth2.Config, che cache.Cache) *Strava {
	if oauth == nil {
		oauth = StravaOauthConfig
	}
	return &Strava{oauth: oauth, cache: che}
}

func (s *Strava) ID() string {
	return "strava"
}

// RetrieveAuthorizationToken exchanges the authorization code carried on the
// callback request for a token. The athlete ID embedded in the token
// response becomes the external account identifier.
func (s *Strava) RetrieveAuthorizationToken(r *http.Request) (string, map[string]any, error) {
	code := r.URL.Query().Get("code")
	if code == "" {
		return "", nil, fmt.Errorf("code not found")
	}

	token, err := s.oauth.Exchange(r.Context(), code)
	if err != nil {
		return "", nil, fmt.Errorf("token exchange failed: %w", err)
	}

	athlete, ok := token.Extra("athlete").(map[string]any)
	if !ok {
		return "", nil, fmt.Errorf("unable to get athlete info")
	}
	externalID := fmt.Sprint(athlete["id"])

	if s.cache != nil {
		s.cache.SetJSON(r.Context(), "strava_auth_token", token, 0) //nolint:errcheck // A stale cache entry is harmless
	}

	return externalID, map[string]any{
		"access_token":  token.AccessToken,
		"refresh_token": token.RefreshToken,
		"expiry":        token.Expiry,
	}, nil
}
