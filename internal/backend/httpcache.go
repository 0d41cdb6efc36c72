package backend

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gregjones/httpcache"
)

// newCachedClient returns a client that keeps responses in memory for maxAge,
// whatever caching headers the backend sends.
func newCachedClient(base http.RoundTripper, timeout, maxAge time.Duration) *http.Client {
	hc := httpcache.NewTransport(httpcache.NewMemoryCache())
	hc.Transport = &headerOverrideTransport{
		wrapped: base,
		response: func(resp *http.Response) {
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second)))
		},
	}
	return &http.Client{Transport: hc, Timeout: timeout}
}

type headerOverrideTransport struct {
	response func(resp *http.Response)
	wrapped  http.RoundTripper
}

func (t *headerOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.wrapped.RoundTrip(req.Clone(req.Context()))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK {
		t.response(resp)
	}
	return resp, nil
}

func httpStatusText(code int) string {
	return strconv.Itoa(code) + " " + http.StatusText(code)
}
