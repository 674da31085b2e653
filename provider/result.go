package provider

import (
	"io"
)

// AIResponse is the normalized outcome of a buffered call: the cleaned text
// plus whatever completion metadata the vendor reported.
type AIResponse struct {
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        Usage  `json:"usage"`

	_ struct{} // require keyed usage
}

// StreamChunk is the normalized unit of streamed output. Done marks the end
// of the logical response regardless of how many more physical frames the
// connection might still deliver; readers are allowed to stop at that point
// and swallow the rest.
type StreamChunk struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`

	_ struct{} // require keyed usage
}

// CallResult carries the outcome of CallAPI. Exactly one of the two fields is
// set, matching the requested mode: Response for buffered calls, Stream for
// streaming ones. The caller owns Stream and must close it; closing releases
// the connection and cancels the attempt's deadline.
type CallResult struct {
	Response *AIResponse
	Stream   io.ReadCloser

	_ struct{} // require keyed usage
}
