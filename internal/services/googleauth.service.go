package services

import (
	"context"
	"net/http"

	"msp/config"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

// newGoogleHTTPClient builds a service-account authenticated client for the
// Google APIs. Token exchange happens lazily on first use, so construction
// never fails; a missing or malformed key surfaces on the first API call.
func newGoogleHTTPClient(ctx context.Context, cfg config.Config, scopes ...string) *http.Client {
	jwtConfig := &jwt.Config{
		Email:      cfg.GoogleServiceAccountEmail,
		PrivateKey: []byte(cfg.GooglePrivateKey),
		Scopes:     scopes,
		TokenURL:   google.JWTTokenURL,
	}
	return jwtConfig.Client(ctx)
}
