// Package network provides the HTTP client shared by the application's outbound requests.
package network

import (
	"net/http"
	"time"
)

// Client is used for release lookups. Requests carry their own deadline.
var Client = &http.Client{
	Timeout:   30 * time.Second,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 4
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 10 * time.Second
	return t
}
