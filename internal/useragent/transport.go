package useragent

import "net/http"

// Transport adds the User-Agent header to every request before delegating
// to Base. A nil Base uses http.DefaultTransport.
type Transport struct {
	Header Header
	Base   http.RoundTripper
}

// NewTransport wraps base so that every request carries label as User-Agent.
func NewTransport(label string, base http.RoundTripper) *Transport {
	return &Transport{Header: New(label), Base: base}
}

// RoundTrip implements http.RoundTripper. The caller's request is not modified.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	t.Header.Apply(r.Header)
	return t.base().RoundTrip(r)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
