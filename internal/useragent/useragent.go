// Package useragent encodes and decodes the User-Agent header sent to the
// search API and provides a transport that attaches it to outbound requests.
package useragent

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Name is the canonical header name.
const Name = "User-Agent"

// Header is a User-Agent header value.
type Header struct {
	Value string
}

// New returns a header carrying label.
func New(label string) Header {
	return Header{Value: label}
}

// String serializes the header as a header line without the trailing CRLF.
func (h Header) String() string {
	return Name + ": " + h.Value
}

// Apply sets the header on hdr, replacing any existing User-Agent.
func (h Header) Apply(hdr http.Header) {
	hdr.Set(Name, h.Value)
}

// Parse decodes a raw "User-Agent: <value>" line. The line is split on the
// first colon and the value is trimmed.
//
// Header lines handed to Parse are produced by this process, so a malformed
// line is a programming error and Parse panics instead of returning an error.
// Never call it with bytes read from the network.
func Parse(raw []byte) Header {
	if !utf8.Valid(raw) {
		panic(fmt.Sprintf("useragent: header line is not valid UTF-8: %q", raw))
	}
	_, value, ok := strings.Cut(string(raw), ":")
	if !ok {
		panic(fmt.Sprintf("useragent: header line has no colon: %q", raw))
	}
	return Header{Value: strings.TrimSpace(value)}
}
