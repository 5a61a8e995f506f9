package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Proxy performs GET requests on behalf of an API client, injecting
// headers, respecting the rate limiter and retrying once when the
// remote side has a transient fault
type Proxy struct {
	header      map[string]string
	client      http.Client
	rateLimiter *RateLimiter
}

func NewProxy(header map[string]string, restrictions []Restriction) Proxy {
	return Proxy{
		header:      header,
		client:      http.Client{Timeout: 10 * time.Second},
		rateLimiter: NewRateLimiter(restrictions),
	}
}

// Request fetches the url and returns the response body. Vital
// requests wait out the rate limiter; non vital ones give up
// immediately when the limiter is saturated
func (proxy *Proxy) Request(ctx context.Context, url string, vital bool) ([]byte, error) {

	if !proxy.rateLimiter.Allow(ctx, vital) {
		return nil, fmt.Errorf("rate limiter did not allow the request")
	}

	body, status, err := proxy.do(ctx, url)
	if err == nil && status >= http.StatusInternalServerError {
		// One retry on a server side fault
		log.Warn().Msg(fmt.Sprintf("Got status %d from %s, retrying once", status, url))
		body, status, err = proxy.do(ctx, url)
	}
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		return body, nil
	case http.StatusTooManyRequests:
		proxy.rateLimiter.ReceivedRateLimit()
		return nil, fmt.Errorf("remote side reported a rate limit")
	case http.StatusNotFound:
		return nil, fmt.Errorf("no data found at %s", url)
	default:
		return nil, fmt.Errorf("request to %s failed with status %d", url, status)
	}
}

func (proxy *Proxy) do(ctx context.Context, url string) ([]byte, int, error) {

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("could not create request for url %s: %w", url, err)
	}
	for key, value := range proxy.header {
		request.Header.Set(key, value)
	}

	response, err := proxy.client.Do(request)
	if err != nil {
		return nil, 0, fmt.Errorf("could not perform request to %s: %w", url, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("could not read response from %s: %w", url, err)
	}
	log.Debug().Msg(fmt.Sprintf("%d from %s", response.StatusCode, url))
	return body, response.StatusCode, nil
}
