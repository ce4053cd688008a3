package oauth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"
)

// MockTokenServer - a test double for the tenant OAuth token endpoint
type MockTokenServer interface {
	GetServerURL() string
	GetTokenURL() string
	SetTokenResponse(accessToken string, expiry time.Duration, statusCode int)
	SetRawTokenResponse(body string, statusCode int)
	GetTokenRequestHeaders() http.Header
	GetTokenRequestValues() url.Values
	GetTokenRequestCount() int
	Close()
}

type mockTokenServer struct {
	sync.Mutex
	tokenResponseCode int
	accessToken       string
	tokenExpiry       time.Duration
	rawResponse       string
	server            *httptest.Server
	tokenReqHeaders   http.Header
	tokenReqValues    url.Values
	tokenReqCount     int
}

// NewMockTokenServer - creates a new mock token server for tests, answering on /v1/oauth/token
func NewMockTokenServer() MockTokenServer {
	m := &mockTokenServer{
		tokenResponseCode: http.StatusOK,
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.handleRequest))
	return m
}

func (m *mockTokenServer) handleRequest(resp http.ResponseWriter, req *http.Request) {
	if !strings.HasSuffix(req.URL.Path, "/oauth/token") {
		resp.WriteHeader(http.StatusNotFound)
		return
	}

	m.Lock()
	defer m.Unlock()
	m.tokenReqCount++
	m.tokenReqHeaders = req.Header
	m.tokenReqValues = nil
	reqBuf, _ := io.ReadAll(req.Body)
	if len(reqBuf) != 0 {
		if val, err := url.ParseQuery(string(reqBuf)); err == nil {
			m.tokenReqValues = val
		}
	}

	if m.tokenResponseCode != http.StatusOK {
		resp.WriteHeader(m.tokenResponseCode)
		resp.Write([]byte(`{"error":"invalid_client"}`))
		return
	}
	if m.rawResponse != "" {
		resp.Write([]byte(m.rawResponse))
		return
	}

	t := tokenResponse{
		AccessToken: m.accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(m.tokenExpiry / time.Second),
	}
	buf, _ := json.Marshal(t)
	resp.Header().Set(hdrContentType, "application/json")
	resp.Write(buf)
}

func (m *mockTokenServer) GetServerURL() string {
	return m.server.URL
}

func (m *mockTokenServer) GetTokenURL() string {
	return m.server.URL + "/v1/oauth/token"
}

func (m *mockTokenServer) SetTokenResponse(accessToken string, expiry time.Duration, statusCode int) {
	m.Lock()
	defer m.Unlock()
	m.accessToken = accessToken
	m.tokenExpiry = expiry
	m.tokenResponseCode = statusCode
	m.rawResponse = ""
}

func (m *mockTokenServer) SetRawTokenResponse(body string, statusCode int) {
	m.Lock()
	defer m.Unlock()
	m.rawResponse = body
	m.tokenResponseCode = statusCode
}

func (m *mockTokenServer) GetTokenRequestHeaders() http.Header {
	m.Lock()
	defer m.Unlock()
	return m.tokenReqHeaders
}

func (m *mockTokenServer) GetTokenRequestValues() url.Values {
	m.Lock()
	defer m.Unlock()
	return m.tokenReqValues
}

func (m *mockTokenServer) GetTokenRequestCount() int {
	m.Lock()
	defer m.Unlock()
	return m.tokenReqCount
}

func (m *mockTokenServer) Close() {
	m.server.Close()
}
