package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"

	"github.com/klede-lab/waitlist/pkg/xcontext"
)

type Client interface {
	Header(name, value string) Client
	Body(body Body) Client
	POST(ctx context.Context, opts ...Opt) (*Response, error)
}

type Generator interface {
	New(path string, args ...any) Client
}

type defaultGenerator struct {
	domains []string
}

func NewGenerator(domains ...string) *defaultGenerator {
	return &defaultGenerator{domains: domains}
}

func (g *defaultGenerator) New(path string, args ...any) Client {
	return &defaultClient{
		domains: g.domains,
		path:    fmt.Sprintf(path, args...),
		headers: make(http.Header),
	}
}

type Body interface {
	ToReader() (io.Reader, string, error)
}

// Opt adjusts the outgoing request after the client headers are set.
type Opt func(*http.Request)

type defaultClient struct {
	domains []string
	method  string
	path    string
	headers http.Header
	body    Body
}

func (c *defaultClient) Header(name, value string) Client {
	c.headers[name] = []string{value}
	return c
}

func (c *defaultClient) Body(body Body) Client {
	c.body = body
	return c
}

func (c *defaultClient) POST(ctx context.Context, opts ...Opt) (*Response, error) {
	c.method = http.MethodPost
	return c.call(ctx, opts...)
}

func (c *defaultClient) call(ctx context.Context, opts ...Opt) (*Response, error) {
	perm := rand.Perm(len(c.domains))
	for _, index := range perm {
		url := c.domains[index] + c.path

		// The body reader is consumed by every attempt, so it is rebuilt for
		// each domain.
		var reader io.Reader
		var contentType string
		if c.body != nil {
			var err error
			reader, contentType, err = c.body.ToReader()
			if err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, c.method, url, reader)
		if err != nil {
			return nil, err
		}

		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		for h, values := range c.headers {
			for _, v := range values {
				req.Header.Add(h, v)
			}
		}

		for _, opt := range opts {
			opt(req)
		}

		result, err := xcontext.HTTPClient(ctx).Do(req)
		if err != nil {
			xcontext.Logger(ctx).Warnf("An error occured when calling to %s: %v", url, err)
			continue
		}

		body, err := io.ReadAll(result.Body)
		result.Body.Close()
		if err != nil {
			xcontext.Logger(ctx).Warnf("An error occured when reading body of %s: %v", url, err)
			continue
		}

		response := &Response{
			Code:    result.StatusCode,
			Header:  result.Header,
			RawBody: body,
		}

		// Non json bodies are only available raw.
		response.Body = JSON{}
		if len(body) > 0 {
			if b, err := bytesToJSON(body); err == nil {
				response.Body = b
			}
		}

		return response, nil
	}

	return nil, errors.New("all endpoints got errors")
}
