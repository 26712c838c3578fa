package jokeapi

import (
	"net/http"
	"time"

	"github.com/doyensec/safeurl"
)

// NewSafeHTTPClient returns an *http.Client that refuses to dial private,
// loopback, link-local and metadata addresses, checked after DNS
// resolution. Only http and https on ports 80 and 443 are allowed.
func NewSafeHTTPClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return safeurl.Client(config).Client
}
