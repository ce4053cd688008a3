package oauth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/luminatesec/luminate-client/pkg/api"
	"github.com/luminatesec/luminate-client/pkg/util/log"
)

// AuthClient - Interface representing the auth Client
type AuthClient interface {
	GetToken() (string, error)
	FetchToken(useCachedToken bool) (string, error)
}

// AuthClientOption - configures auth client.
type AuthClientOption func(*authClientOptions)

type authClientOptions struct {
	serverName    string
	logger        log.FieldLogger
	authenticator authenticator
	err           error
}

// authClient -
type authClient struct {
	tokenURL          string
	logger            log.FieldLogger
	apiClient         api.Client
	cachedToken       *tokenResponse
	getTokenMutex     *sync.Mutex
	options           *authClientOptions
	cachedTokenExpiry time.Time
}

type authenticator interface {
	prepareRequest() (url.Values, map[string]string, error)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

// NewAuthClient - create a new auth client with client options
func NewAuthClient(tokenURL string, apiClient api.Client, opts ...AuthClientOption) (AuthClient, error) {
	client := &authClient{
		tokenURL:      tokenURL,
		apiClient:     apiClient,
		getTokenMutex: &sync.Mutex{},
		options:       &authClientOptions{},
	}
	for _, o := range opts {
		o(client.options)
	}

	if client.options.err != nil {
		return nil, client.options.err
	}
	if client.options.serverName == "" {
		client.options.serverName = defaultServerName
	}
	if client.options.logger == nil {
		client.options.logger = log.NewFieldLogger()
	}
	client.logger = client.options.logger.
		WithComponent("authclient").
		WithPackage("authz.oauth")
	if client.options.authenticator == nil {
		return nil, ErrNoAuthenticator
	}
	return client, nil
}

// WithServerName - sets up the server name in auth client
func WithServerName(serverName string) AuthClientOption {
	return func(opt *authClientOptions) {
		opt.serverName = serverName
	}
}

// WithLogger - the logger failed token requests are written to
func WithLogger(logger log.FieldLogger) AuthClientOption {
	return func(opt *authClientOptions) {
		opt.logger = logger
	}
}

// WithClientSecretBasicAuth - sets up to use client secret basic authenticator
func WithClientSecretBasicAuth(clientID, clientSecret, scope string) AuthClientOption {
	return func(opt *authClientOptions) {
		opt.authenticator = &clientSecretBasicAuthenticator{
			clientID:     clientID,
			clientSecret: clientSecret,
			scope:        scope,
		}
	}
}

// WithClientSecretPostAuth - sets up to use client secret authenticator
func WithClientSecretPostAuth(clientID, clientSecret, scope string) AuthClientOption {
	return func(opt *authClientOptions) {
		opt.authenticator = &clientSecretPostAuthenticator{
			clientID:     clientID,
			clientSecret: clientSecret,
			scope:        scope,
		}
	}
}

// WithClientSecretJwtAuth - sets up to use a client assertion signed with the client secret
func WithClientSecretJwtAuth(clientID, clientSecret, scope, aud, signingMethod string) AuthClientOption {
	return func(opt *authClientOptions) {
		opt.authenticator = &clientSecretJwtAuthenticator{
			clientID:      clientID,
			clientSecret:  clientSecret,
			scope:         scope,
			aud:           aud,
			signingMethod: signingMethod,
		}
	}
}

// WithClientAuthMethod - selects the authenticator by its method name, the audience of a
// client_secret_jwt assertion is the token url
func WithClientAuthMethod(method, clientID, clientSecret, scope, tokenURL string) AuthClientOption {
	switch method {
	case "", AuthMethodClientSecretBasic:
		return WithClientSecretBasicAuth(clientID, clientSecret, scope)
	case AuthMethodClientSecretPost:
		return WithClientSecretPostAuth(clientID, clientSecret, scope)
	case AuthMethodClientSecretJWT:
		return WithClientSecretJwtAuth(clientID, clientSecret, scope, tokenURL, "")
	}
	return func(opt *authClientOptions) {
		opt.err = ErrUnknownAuthMethod.FormatError(method)
	}
}

func (c *authClient) getCachedToken() string {
	if c.cachedToken != nil && !c.cachedTokenExpiry.IsZero() && time.Now().After(c.cachedTokenExpiry) {
		c.cachedToken = nil
	}
	if c.cachedToken != nil {
		return c.cachedToken.AccessToken
	}
	return ""
}

// GetToken returns a token from cache if not expired or fetches a new token
func (c *authClient) GetToken() (string, error) {
	return c.FetchToken(true)
}

// FetchToken returns the cached token when allowed and still valid, otherwise fetches a new token
func (c *authClient) FetchToken(useCachedToken bool) (string, error) {
	// only one GetToken should execute at a time
	c.getTokenMutex.Lock()
	defer c.getTokenMutex.Unlock()
	token := c.getCachedToken()
	if useCachedToken && token != "" {
		return token, nil
	}

	// try fetching a new token
	return c.fetchNewToken()
}

// fetchNewToken fetches a new token and updates the token cache, a token without
// an expires_in value is kept until a new one is requested
func (c *authClient) fetchNewToken() (string, error) {
	tokenResponse, err := c.getOAuthTokens()
	if err != nil {
		return "", err
	}

	c.cachedToken = tokenResponse
	c.cachedTokenExpiry = time.Time{}
	if tokenResponse.ExpiresIn > 0 {
		almostExpires := (tokenResponse.ExpiresIn * 4) / 5
		c.cachedTokenExpiry = time.Now().Add(time.Duration(almostExpires) * time.Second)
	}
	return c.cachedToken.AccessToken, nil
}

func (c *authClient) getOAuthTokens() (*tokenResponse, error) {
	req, headers, err := c.options.authenticator.prepareRequest()
	if err != nil {
		return nil, ErrTokenRequest.FormatErrorWithCause(err, c.options.serverName)
	}

	resp, err := c.postAuthForm(req, headers)
	if err != nil {
		return nil, err
	}

	if resp.Code != http.StatusOK {
		err := ErrTokenStatus.FormatError(c.options.serverName, resp.Code, http.StatusText(resp.Code))
		c.logger.
			WithField("server", c.options.serverName).
			WithField("url", c.tokenURL).
			WithField("status", resp.Code).
			WithField("body", string(resp.Body)).
			WithError(err).
			Debug("token request rejected")
		return nil, err
	}

	tokens := tokenResponse{}
	if err := json.Unmarshal(resp.Body, &tokens); err != nil || tokens.AccessToken == "" {
		c.logger.
			WithField("server", c.options.serverName).
			WithField("url", c.tokenURL).
			Debug("token response carried no access_token")
		return nil, ErrTokenResponse.FormatError(c.options.serverName)
	}

	return &tokens, nil
}

func (c *authClient) postAuthForm(data url.Values, headers map[string]string) (*api.Response, error) {
	reqHeaders := map[string]string{
		hdrContentType: mimeApplicationFormURLEncoded,
	}
	for name, value := range headers {
		reqHeaders[name] = value
	}
	req := api.Request{
		Method:  api.POST,
		URL:     c.tokenURL,
		Body:    []byte(data.Encode()),
		Headers: reqHeaders,
	}
	resp, err := c.apiClient.Send(req)
	if err != nil {
		return nil, ErrTokenRequest.FormatErrorWithCause(err, c.options.serverName)
	}
	return resp, nil
}
