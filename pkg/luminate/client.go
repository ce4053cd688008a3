package luminate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/luminatesec/luminate-client/pkg/api"
	"github.com/luminatesec/luminate-client/pkg/authz/oauth"
	"github.com/luminatesec/luminate-client/pkg/config"
	"github.com/luminatesec/luminate-client/pkg/util/log"
)

const (
	tokenPath = "/v1/oauth/token"

	hdrAuthorization = "Authorization"
	hdrContentType   = "Content-Type"
	hdrAccept        = "Accept"
	mimeJSON         = "application/json"

	opCreate      = "create application"
	opUpdate      = "update application"
	opAssignUser  = "assign user"
	opAssignGroup = "assign group"
)

// fields never written to the log
var redactedFields = []string{"access_token", "client_secret", "client_assertion", "password"}

// Client - the typed operations of the Luminate REST API
type Client interface {
	CreateApplication(app Application) (string, error)
	UpdateApplication(id string, app Application) error
	AssignUserToApp(id, email, idp string, sshUsers []string) error
	AssignGroupToApp(id, name, idp string, sshUsers []string) error
}

// TokenPolicy - what the client does with its access token once obtained
type TokenPolicy int

// Token policies
const (
	// TokenRefreshOnUnauthorized - a 401 response triggers one new token and one retry of the request
	TokenRefreshOnUnauthorized TokenPolicy = iota
	// TokenReuse - the token fetched at construction is used for every call
	TokenReuse
)

var tokenPolicyNames = map[string]TokenPolicy{
	"refresh": TokenRefreshOnUnauthorized,
	"reuse":   TokenReuse,
}

// ParseTokenPolicy - refresh or reuse
func ParseTokenPolicy(name string) (TokenPolicy, error) {
	policy, ok := tokenPolicyNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return TokenRefreshOnUnauthorized, ErrBadClientSetting.FormatError("tokenPolicy " + name)
	}
	return policy, nil
}

type clientOptions struct {
	tlsVerify  bool
	tlsConfig  config.TLSConfig
	proxyURL   string
	timeout    time.Duration
	userAgent  string
	logger     log.FieldLogger
	apiClient  api.Client
	authMethod string
	policy     TokenPolicy
}

// ClientOption - configures the client built by NewClient
type ClientOption func(*clientOptions)

// WithTLSVerify - verify the server certificate, true unless set
func WithTLSVerify(verify bool) ClientOption {
	return func(o *clientOptions) {
		o.tlsVerify = verify
	}
}

// WithTLSConfig - replaces the default TLS settings, WithTLSVerify is ignored when set
func WithTLSConfig(tlsConfig config.TLSConfig) ClientOption {
	return func(o *clientOptions) {
		o.tlsConfig = tlsConfig
	}
}

// WithProxy - http, https or socks5 proxy url
func WithProxy(proxyURL string) ClientOption {
	return func(o *clientOptions) {
		o.proxyURL = proxyURL
	}
}

// WithTimeout - per request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithUserAgent -
func WithUserAgent(userAgent string) ClientOption {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithLogger - the logger request and response details are written to
func WithLogger(logger log.FieldLogger) ClientOption {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithAPIClient - the transport used for every call, including the token request
func WithAPIClient(apiClient api.Client) ClientOption {
	return func(o *clientOptions) {
		o.apiClient = apiClient
	}
}

// WithAuthMethod - client_secret_basic (default), client_secret_post or client_secret_jwt
func WithAuthMethod(method string) ClientOption {
	return func(o *clientOptions) {
		o.authMethod = method
	}
}

// WithTokenPolicy -
func WithTokenPolicy(policy TokenPolicy) ClientOption {
	return func(o *clientOptions) {
		o.policy = policy
	}
}

type client struct {
	baseURL    string
	apiClient  api.Client
	authClient oauth.AuthClient
	logger     log.FieldLogger
	policy     TokenPolicy
	tokenMutex sync.Mutex
	token      string
}

// NewClient - creates the client and obtains its access token, the client is only returned when
// the token was granted
func NewClient(server string, apiVersion int, clientID, clientSecret string, opts ...ClientOption) (Client, error) {
	options := &clientOptions{
		tlsVerify:  true,
		authMethod: oauth.AuthMethodClientSecretBasic,
		policy:     TokenRefreshOnUnauthorized,
	}
	for _, o := range opts {
		o(options)
	}

	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if _, err := url.ParseRequestURI(server); err != nil || server == "" {
		return nil, ErrBadClientSetting.FormatError("server " + server)
	}
	if apiVersion < 1 {
		return nil, ErrBadClientSetting.FormatError(fmt.Sprintf("apiVersion %d", apiVersion))
	}

	if options.logger == nil {
		options.logger = log.NewFieldLogger()
	}
	logger := options.logger.WithComponent("luminateClient").WithPackage("luminate")

	apiClient := options.apiClient
	if apiClient == nil {
		tlsConfig := options.tlsConfig
		if tlsConfig == nil {
			tlsConfig = config.NewTLSConfigWithVerify(options.tlsVerify)
		}
		apiClient = api.NewClient(tlsConfig, options.proxyURL,
			api.WithTimeout(options.timeout),
			api.WithLogger(options.logger),
			api.WithUserAgent(options.userAgent),
		)
	}

	tokenURL := server + tokenPath
	authClient, err := oauth.NewAuthClient(tokenURL, apiClient,
		oauth.WithServerName(server),
		oauth.WithLogger(options.logger),
		oauth.WithClientAuthMethod(options.authMethod, clientID, clientSecret, "", tokenURL),
	)
	if err != nil {
		return nil, err
	}

	c := &client{
		baseURL:    fmt.Sprintf("%s/v%d", server, apiVersion),
		apiClient:  apiClient,
		authClient: authClient,
		logger:     logger,
		policy:     options.policy,
	}

	logger.WithField("url", tokenURL).Debug("requesting access token")
	token, err := authClient.GetToken()
	if err != nil {
		return nil, ErrAuthentication.FormatErrorWithCause(err, server)
	}
	c.token = token
	logger.Info("authenticated against the Luminate API")
	return c, nil
}

// CreateApplication - registers the application and returns its id
func (c *client) CreateApplication(app Application) (string, error) {
	if err := app.validate(); err != nil {
		return "", err
	}

	resp, err := c.send(opCreate, api.POST, c.baseURL+"/applications", newApplicationPayload(app), http.StatusCreated)
	if err != nil {
		return "", err
	}

	id := gjson.GetBytes(resp.Body, "id").String()
	if id == "" {
		return "", ErrMissingApplication.FormatError(app.Name)
	}
	return id, nil
}

// UpdateApplication - replaces the application settings
func (c *client) UpdateApplication(id string, app Application) error {
	if err := app.validate(); err != nil {
		return err
	}

	_, err := c.send(opUpdate, api.PUT, c.applicationURL(id), newApplicationPayload(app), http.StatusOK)
	return err
}

// AssignUserToApp - grants the user of the identity provider access to the application
func (c *client) AssignUserToApp(id, email, idp string, sshUsers []string) error {
	payload := assignUserPayload{
		Email:    email,
		IDPName:  idp,
		SSHUsers: sshUsers,
	}
	_, err := c.send(opAssignUser, api.POST, c.applicationURL(id)+"/assign-user", payload, http.StatusOK)
	return err
}

// AssignGroupToApp - grants the group of the identity provider access to the application
func (c *client) AssignGroupToApp(id, name, idp string, sshUsers []string) error {
	payload := assignGroupPayload{
		Name:     name,
		IDPName:  idp,
		SSHUsers: sshUsers,
	}
	_, err := c.send(opAssignGroup, api.POST, c.applicationURL(id)+"/assign-group", payload, http.StatusOK)
	return err
}

func (c *client) applicationURL(id string) string {
	return c.baseURL + "/applications/" + url.PathEscape(id)
}

func (c *client) currentToken() string {
	c.tokenMutex.Lock()
	defer c.tokenMutex.Unlock()
	return c.token
}

func (c *client) refreshToken() (string, error) {
	c.tokenMutex.Lock()
	defer c.tokenMutex.Unlock()
	token, err := c.authClient.FetchToken(false)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}

func (c *client) send(operation, method, requestURL string, payload interface{}, expectedStatus int) (*api.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, ErrRequest.FormatErrorWithCause(err, operation)
	}

	logger := c.logger.
		WithField("operation", operation).
		WithField("method", method).
		WithField("url", requestURL)
	logger.Debugf("request to Luminate: %s", log.ObscureArguments(redactedFields, string(body))...)

	resp, err := c.do(method, requestURL, body, c.currentToken())
	if err == nil && resp.Code == http.StatusUnauthorized && c.policy == TokenRefreshOnUnauthorized {
		logger.Debug("access token rejected, requesting a new one")
		token, tokenErr := c.refreshToken()
		if tokenErr != nil {
			return nil, ErrAuthentication.FormatErrorWithCause(tokenErr, c.baseURL)
		}
		resp, err = c.do(method, requestURL, body, token)
	}
	if err != nil {
		logger.WithError(err).Debug("request to Luminate failed")
		return nil, ErrRequest.FormatErrorWithCause(err, operation)
	}

	logger.
		WithField("status", resp.Code).
		Debugf("response from Luminate: %s", log.ObscureArguments(redactedFields, string(resp.Body))...)

	if resp.Code != expectedStatus {
		return resp, &APIError{
			Operation:  operation,
			StatusCode: resp.Code,
			Body:       string(resp.Body),
		}
	}
	return resp, nil
}

func (c *client) do(method, requestURL string, body []byte, token string) (*api.Response, error) {
	resp, err := c.apiClient.Send(api.Request{
		Method: method,
		URL:    requestURL,
		Headers: map[string]string{
			hdrAuthorization: "Bearer " + token,
			hdrContentType:   mimeJSON,
			hdrAccept:        mimeJSON,
		},
		Body: body,
	})
	if err == nil && resp == nil {
		err = fmt.Errorf("no response from %s", requestURL)
	}
	return resp, err
}
