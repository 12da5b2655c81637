package llm

import "context"

// Client abstracts generative-model providers behind a single
// request/response call. Implementations return the raw response text,
// which callers validate against their own output contract.
type Client interface {
	Analyze(ctx context.Context, req Request) (string, error)
}

// Request carries the composed content parts for one analysis call. Either
// Text or ImageData is set, never both.
type Request struct {
	Instruction string
	Text        string
	ImageMIME   string
	ImageData   string // base64-encoded raw bytes
}
