package config

import (
	"fmt"
	"time"
)

type OAuthConfig interface {
	GetO365ClientID() string
	GetO365ClientSecret() string
	GetO365AuthURL() string
	GetO365TokenURL() string
	GetO365RedirectURI() string
	GetO365Scopes() []string

	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleAuthURL() string
	GetGoogleTokenURL() string
	GetGoogleRedirectURI() string
	GetGoogleScopes() []string

	GetExchangeTimeout() time.Duration
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"
)

func (OAuth) GetO365ClientID() string {
	return GetEnv("O365_CLIENT_ID", "")
}

func (OAuth) GetO365ClientSecret() string {
	return GetEnv("O365_CLIENT_SECRET", "")
}

func (o OAuth) GetO365AuthURL() string {
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/authorize", o.tenant())
}

func (o OAuth) GetO365TokenURL() string {
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", o.tenant())
}

func (OAuth) GetO365RedirectURI() string {
	return EnvVars{}.GetBaseURL() + "/auth/callback"
}

func (OAuth) GetO365Scopes() []string {
	return []string{"User.Read"}
}

func (OAuth) tenant() string {
	return GetEnv("O365_TENANT_ID", "common")
}

func (OAuth) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}

func (OAuth) GetGoogleClientSecret() string {
	return GetEnv("GOOGLE_CLIENT_SECRET", "")
}

func (OAuth) GetGoogleAuthURL() string {
	return googleAuthURL
}

func (OAuth) GetGoogleTokenURL() string {
	return googleTokenURL
}

func (OAuth) GetGoogleRedirectURI() string {
	return EnvVars{}.GetBaseURL() + "/auth/google/callback"
}

func (OAuth) GetGoogleScopes() []string {
	return []string{"openid", "email", "profile"}
}

func (OAuth) GetExchangeTimeout() time.Duration {
	return 10 * time.Second
}
