package http

import (
	"net/http"
	"time"

	ctxutil "sedeges/ms_hojas_ruta/internal/infrastructure/context"
)

// CorrelationHeader carries the request's correlation ID to downstream services.
const CorrelationHeader = "X-Correlation-ID"

// ClientConfig holds configuration for outbound HTTP clients.
type ClientConfig struct {
	Timeout         time.Duration
	MaxConnsPerHost int // 0 uses 10
	Transport       http.RoundTripper
}

// NewClient creates an HTTP client with pooled connections that forwards the
// correlation ID of the request context. A nil config uses a 30s timeout.
func NewClient(config *ClientConfig) *http.Client {
	if config == nil {
		config = &ClientConfig{Timeout: 30 * time.Second}
	}

	base := config.Transport
	if base == nil {
		maxConns := config.MaxConnsPerHost
		if maxConns == 0 {
			maxConns = 10
		}
		base = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   maxConns,
			MaxConnsPerHost:       maxConns,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: time.Second,
		}
	}

	return &http.Client{
		Timeout:   config.Timeout,
		Transport: correlationTransport{base: base},
	}
}

type correlationTransport struct {
	base http.RoundTripper
}

func (t correlationTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := ctxutil.GetCorrelationID(req.Context())
	if id == "" || req.Header.Get(CorrelationHeader) != "" {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set(CorrelationHeader, id)
	return t.base.RoundTrip(clone)
}
