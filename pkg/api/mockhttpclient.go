package api

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// MockHTTPClient - use for mocking the HTTP client
type MockHTTPClient struct {
	Response      *Response // this for if you want to set your own dummy response
	ResponseCode  int       // this for if you only care about a particular response code
	ResponseError error

	RespCount int
	Responses []MockResponse
	Requests  []Request // lists all requests the client has received
	sync.Mutex
}

// MockResponse - use for mocking the MockHTTPClient responses
type MockResponse struct {
	FileName  string
	RespData  string
	RespCode  int
	ErrString string
}

// SetResponses - responses are returned in order, one per request
func (c *MockHTTPClient) SetResponses(responses []MockResponse) {
	c.Lock()
	defer c.Unlock()
	c.RespCount = 0
	c.Responses = responses
}

// Send -
func (c *MockHTTPClient) Send(request Request) (*Response, error) {
	c.Lock()
	defer c.Unlock()

	c.Requests = append(c.Requests, request)

	if len(c.Responses) > 0 {
		return c.sendMultiple(request)
	}
	if c.Response != nil {
		return c.Response, nil
	}
	if c.ResponseError != nil {
		return nil, c.ResponseError
	}
	if c.ResponseCode != 0 {
		return &Response{
			Code: c.ResponseCode,
		}, nil
	}
	return nil, nil
}

func (c *MockHTTPClient) sendMultiple(request Request) (*Response, error) {
	if c.RespCount >= len(c.Responses) {
		return nil, fmt.Errorf("error: received more requests than saved responses. failed on request: %s %s", request.Method, request.URL)
	}

	mockResp := c.Responses[c.RespCount]
	c.RespCount++

	if mockResp.ErrString != "" {
		return nil, errors.New(mockResp.ErrString)
	}

	dat := []byte(mockResp.RespData)
	if mockResp.FileName != "" {
		responseFile, err := os.Open(mockResp.FileName)
		if err != nil {
			return nil, err
		}
		defer responseFile.Close()

		dat, err = io.ReadAll(responseFile)
		if err != nil {
			return nil, err
		}
	}

	return &Response{
		Code:    mockResp.RespCode,
		Body:    dat,
		Headers: map[string][]string{},
	}, nil
}

// GetRequests - a copy of the requests received so far
func (c *MockHTTPClient) GetRequests() []Request {
	c.Lock()
	defer c.Unlock()
	requests := make([]Request, len(c.Requests))
	copy(requests, c.Requests)
	return requests
}
