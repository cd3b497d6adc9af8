// Package toonhost shows the boundary between the toon codec and a host
// that serves TOON text to a caller: it builds a response envelope around
// Encode and logs encode failures instead of propagating them, the way a
// tool-call handler that must always return something would.
package toonhost

import (
	"fmt"
	"log"

	"github.com/paularlott/toon/toon"
)

// Content is one part of a Response, mirroring the {type, text} shape a
// tool-call result reports back to its caller.
type Content struct {
	Type string
	Text string
}

// Response is the envelope returned to a caller: a list of content parts
// plus, optionally, the structured value that produced them.
type Response struct {
	Content           []Content
	StructuredContent any
}

// NewResponseText wraps a plain string as a single text content part.
func NewResponseText(text string) *Response {
	return &Response{Content: []Content{{Type: "text", Text: text}}}
}

// NewResponseTOON encodes data as TOON text under opts and wraps it as a
// text content part, carrying data itself as StructuredContent. An
// encode failure never reaches the caller as an error: it is logged and
// degrades to an error-describing text part, since a tool-call response
// has no separate error channel of its own.
func NewResponseTOON(data any, opts toon.EncoderOptions) *Response {
	text, err := toon.Encode(data, opts)
	if err != nil {
		log.Printf("toonhost: encode failed: %v", err)
		return NewResponseText(fmt.Sprintf("error encoding response: %v", err))
	}
	resp := NewResponseText(text)
	resp.StructuredContent = data
	return resp
}

// NewResponseDelimited is NewResponseTOON for a host that only knows its
// delimiter as a configuration string ("comma", "tab", or "pipe").
func NewResponseDelimited(data any, delimiterAlias string) (*Response, error) {
	d, err := toon.ParseDelimiter(delimiterAlias)
	if err != nil {
		return nil, err
	}
	return NewResponseTOON(data, toon.EncoderOptions{Delimiter: d}), nil
}

// NewResponseMulti merges the content parts of several responses into
// one, keeping the first non-nil StructuredContent found, mirroring how
// a multi-part tool result is assembled from partial results.
func NewResponseMulti(responses ...*Response) *Response {
	var content []Content
	var structured any
	for _, r := range responses {
		if r == nil {
			continue
		}
		content = append(content, r.Content...)
		if structured == nil && r.StructuredContent != nil {
			structured = r.StructuredContent
		}
	}
	return &Response{Content: content, StructuredContent: structured}
}
