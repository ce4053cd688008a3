package api

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/luminatesec/luminate-client/pkg/config"
	"github.com/luminatesec/luminate-client/pkg/util"
	"github.com/luminatesec/luminate-client/pkg/util/log"
)

// HTTP const definitions
const (
	GET    string = http.MethodGet
	POST   string = http.MethodPost
	PUT    string = http.MethodPut
	PATCH  string = http.MethodPatch
	DELETE string = http.MethodDelete

	defaultTimeout     = time.Second * 60
	defaultUserAgent   = "luminate-client"
	responseBufferSize = 2048
)

// Request - the request object used when communicating to an API
type Request struct {
	Method      string
	URL         string
	QueryParams map[string]string
	Headers     map[string]string
	Body        []byte
	FormData    map[string]string
}

// Response - the response object given back when communicating to an API
type Response struct {
	Code    int
	Body    []byte
	Headers map[string][]string
}

// Client -
type Client interface {
	Send(request Request) (*Response, error)
}

type httpClient struct {
	logger     log.FieldLogger
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	dialer     util.Dialer
}

// ClientOpt - configures the client built by NewClient
type ClientOpt func(*httpClient)

// WithTimeout - overrides the HTTP_CLIENT_TIMEOUT value, or its 60 second default
func WithTimeout(timeout time.Duration) ClientOpt {
	return func(h *httpClient) {
		if timeout > 0 {
			h.timeout = timeout
		}
	}
}

// WithLogger - the logger request traces are written to
func WithLogger(logger log.FieldLogger) ClientOpt {
	return func(h *httpClient) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithUserAgent - the User-Agent header sent when the request does not carry one
func WithUserAgent(userAgent string) ClientOpt {
	return func(h *httpClient) {
		if userAgent != "" {
			h.userAgent = userAgent
		}
	}
}

// NewClient - creates a new HTTP client
func NewClient(tlsCfg config.TLSConfig, proxyURL string, options ...ClientOpt) Client {
	client := newClient(getTimeoutFromEnvironment())

	for _, o := range options {
		o(client)
	}

	client.initialize(tlsCfg, proxyURL)
	return client
}

func newClient(timeout time.Duration) *httpClient {
	return &httpClient{
		timeout:   timeout,
		userAgent: defaultUserAgent,
		logger: log.NewFieldLogger().
			WithComponent("httpClient").
			WithPackage("api"),
	}
}

func (c *httpClient) parseProxyURL(proxyURL string) *url.URL {
	if proxyURL != "" {
		pURL, err := url.Parse(proxyURL)
		if err == nil {
			return pURL
		}
		c.logger.Errorf("Error parsing proxyURL from config; creating a non-proxy client: %s", err.Error())
	}
	return nil
}

func (c *httpClient) initialize(tlsCfg config.TLSConfig, proxyURL string) {
	c.httpClient = c.createClient(tlsCfg)
	pURL := c.parseProxyURL(proxyURL)
	if pURL == nil {
		return
	}

	dialer, err := util.NewDialer(pURL)
	if err != nil {
		c.logger.WithError(err).Error("creating a non-proxy client")
		return
	}
	c.dialer = dialer
	c.httpClient.Transport.(*http.Transport).DialContext = c.dialer.DialContext
}

func (c *httpClient) createClient(tlsCfg config.TLSConfig) *http.Client {
	transport := &http.Transport{}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg.BuildTLSConfig()
	}
	return &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
	}
}

func getTimeoutFromEnvironment() time.Duration {
	cfgHTTPClientTimeout := os.Getenv("HTTP_CLIENT_TIMEOUT")
	if cfgHTTPClientTimeout == "" {
		return defaultTimeout
	}
	timeout, err := time.ParseDuration(cfgHTTPClientTimeout)
	if err != nil {
		log.Tracef("Unable to parse the HTTP_CLIENT_TIMEOUT value, using the default http client timeout")
		return defaultTimeout
	}
	return timeout
}

func (c *httpClient) getURLEncodedQueryParams(queryParams map[string]string) string {
	params := url.Values{}
	for key, value := range queryParams {
		params.Add(key, value)
	}
	return params.Encode()
}

func (c *httpClient) prepareAPIRequest(ctx context.Context, request Request) (*http.Request, error) {
	requestURL := request.URL
	if len(request.QueryParams) != 0 {
		requestURL += "?" + c.getURLEncodedQueryParams(request.QueryParams)
	}
	var req *http.Request
	var err error
	if request.FormData != nil {
		formData := make(url.Values)
		for k, v := range request.FormData {
			formData.Add(k, v)
		}

		req, err = http.NewRequestWithContext(ctx, request.Method, requestURL, strings.NewReader(formData.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req, err = http.NewRequestWithContext(ctx, request.Method, requestURL, bytes.NewBuffer(request.Body))
		if err != nil {
			return nil, err
		}
	}

	hasUserAgentHeader := false
	for key, value := range request.Headers {
		req.Header.Set(key, value)
		if strings.ToLower(key) == "user-agent" {
			hasUserAgentHeader = true
		}
	}
	if !hasUserAgentHeader {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

func (c *httpClient) prepareAPIResponse(res *http.Response, timer *time.Timer) (*Response, error) {
	var err error
	var responseBuffer bytes.Buffer
	writer := bufio.NewWriter(&responseBuffer)
	for {
		// Reset the timeout timer for reading the response
		timer.Reset(c.timeout)
		_, err = io.CopyN(writer, res.Body, responseBufferSize)
		if err != nil {
			if err == io.EOF {
				err = nil
			}
			break
		}
	}

	if err != nil {
		return nil, err
	}
	if err = writer.Flush(); err != nil {
		return nil, err
	}

	response := Response{
		Code:    res.StatusCode,
		Body:    responseBuffer.Bytes(),
		Headers: res.Header,
	}
	return &response, nil
}

// Send - send the http request and returns the API Response
func (c *httpClient) Send(request Request) (*Response, error) {
	startTime := time.Now()
	cancelCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := c.prepareAPIRequest(cancelCtx, request)
	if err != nil {
		c.logger.Errorf("Error preparing api request: %s", err.Error())
		return nil, err
	}
	reqID := uuid.New().String()

	// Logging for the HTTP request
	statusCode := 0
	receivedData := int64(0)
	defer func() {
		logger := c.logger.
			WithField("id", reqID).
			WithField("method", req.Method).
			WithField("status", statusCode).
			WithField("duration(ms)", time.Since(startTime).Milliseconds()).
			WithField("url", req.URL.String())

		if req.ContentLength > 0 {
			logger = logger.WithField("sent(bytes)", req.ContentLength)
		}

		if receivedData > 0 {
			logger = logger.WithField("received(bytes)", receivedData)
		}

		if err != nil {
			logger.WithError(err).
				Trace("request failed")
		} else {
			logger.Trace("request succeeded")
		}
	}()

	// Start the timer to manage the timeout
	timer := time.AfterFunc(c.timeout, func() {
		cancel()
	})
	defer timer.Stop()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	statusCode = res.StatusCode
	receivedData = res.ContentLength
	response, err := c.prepareAPIResponse(res, timer)
	return response, err
}
