package streams

import "github.com/saferwall/ut/cancel"

// Cancel is re-exported here so callers of this package don't need a
// second import for the token type threaded through every Read call.
type Cancel = cancel.Token

// NewCancel returns an inactive cancel token.
func NewCancel() *Cancel {
	return cancel.New()
}
