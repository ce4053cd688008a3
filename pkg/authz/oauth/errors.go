package oauth

import errors "github.com/luminatesec/luminate-client/pkg/util/errors"

// Errors hit while obtaining an access token
var (
	ErrNoAuthenticator   = errors.New(1101, "unable to create the auth client, no authenticator configured")
	ErrUnknownAuthMethod = errors.Newf(1102, "unknown client authentication method %s, expected client_secret_post, client_secret_basic or client_secret_jwt")
	ErrTokenRequest      = errors.Newf(1103, "could not request an access token from %s")
	ErrTokenStatus       = errors.Newf(1104, "bad response from %s: %d %s")
	ErrTokenResponse     = errors.Newf(1105, "the token response from %s could not be used")
)
