package oauth

import (
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const assertionLifetime = 60 * time.Second

type clientSecretJwtAuthenticator struct {
	clientID      string
	clientSecret  string
	scope         string
	aud           string
	signingMethod string
}

func getSigningMethod(name string, defaultMethod jwt.SigningMethod) jwt.SigningMethod {
	switch name {
	case jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512
	default:
		return defaultMethod
	}
}

// prepareInitialToken signs the client assertion with the client secret
func (p *clientSecretJwtAuthenticator) prepareInitialToken() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(getSigningMethod(p.signingMethod, jwt.SigningMethodHS256), jwt.RegisteredClaims{
		Issuer:    p.clientID,
		Subject:   p.clientID,
		Audience:  []string{p.aud},
		ExpiresAt: jwt.NewNumericDate(now.Add(assertionLifetime)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.New().String(),
	})

	return token.SignedString([]byte(p.clientSecret))
}

func (p *clientSecretJwtAuthenticator) prepareRequest() (url.Values, map[string]string, error) {
	requestToken, err := p.prepareInitialToken()
	if err != nil {
		return nil, nil, err
	}

	v := url.Values{
		metaGrantType:           []string{grantClientCredentials},
		metaClientID:            []string{p.clientID},
		metaClientAssertionType: []string{assertionTypeJWT},
		metaClientAssertion:     []string{requestToken},
	}

	if p.scope != "" {
		v.Add(metaScope, p.scope)
	}
	return v, nil, nil
}
