package api

import (
	"net/http"
)

// BearerAuth authenticates the request with an API key.
func BearerAuth(key string) Opt {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+key)
	}
}
