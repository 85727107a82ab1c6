package streams

import "github.com/saferwall/ut/object"

// ReadCallback is the consumer side of the input-stream contract
// (§4.4). data is the accumulated, not-yet-consumed bytes as a
// []byte, or err is non-nil for a terminal error. complete indicates
// no further bytes will ever follow: the callback must treat all
// remaining bytes as final and its returned nUsed is ignored — every
// byte is considered consumed once complete is true.
//
// When complete is false and nUsed < len(data), the stream retains the
// unconsumed tail and re-delivers it concatenated with the next
// arrival (the sole backpressure mechanism, §4.4/§5).
type ReadCallback func(data []byte, err error, complete bool) (nUsed int)

// InputStream is the push-based byte source capability. Read registers
// the single consumer for the stream's lifetime; calling it twice is a
// programming error, matching the source's assertion that no prior
// registration exists.
type InputStream interface {
	Read(cb ReadCallback, cancel *Cancel)
	// CheckBuffer drains any bytes already buffered immediately,
	// without waiting for more to arrive. Streams with nothing to
	// buffer eagerly may implement it as a no-op.
	CheckBuffer()
}

// Buffer is the reusable core of a push-based input stream: a growable
// byte buffer of not-yet-acknowledged bytes (§3 "Stream buffer"), a
// single registered consumer, and the bookkeeping needed to implement
// the partial-consumption compaction rule. Concrete stream types
// (file descriptor sources, decoders) embed Buffer and call Push to
// deliver newly-arrived bytes.
type Buffer struct {
	pending  []byte
	cb       ReadCallback
	cancel   *Cancel
	complete bool
	err      error
}

// Read registers cb as the consumer. Panics if a consumer is already
// registered, mirroring the source's single-reader assertion.
func (b *Buffer) Read(cb ReadCallback, cancel *Cancel) {
	if b.cb != nil {
		panic("streams: Read called with a consumer already registered")
	}
	b.cb = cb
	b.cancel = cancel
	b.CheckBuffer()
}

// CheckBuffer redelivers whatever is already pending to the registered
// consumer, if any.
func (b *Buffer) CheckBuffer() {
	if b.cb == nil {
		return
	}
	b.deliver()
}

// Push appends newly-arrived bytes (or a terminal error) and attempts
// delivery. Once complete has been signalled once, Push must not be
// called again (§3's "once it reports complete=true, it never
// delivers more bytes").
func (b *Buffer) Push(data []byte, err error, complete bool) {
	if b.complete {
		panic("streams: Push called on an already-complete buffer")
	}
	b.pending = append(b.pending, data...)
	b.err = err
	if complete {
		b.complete = true
	}
	b.deliver()
}

func (b *Buffer) deliver() {
	if b.cb == nil {
		return
	}
	if b.cancel != nil && b.cancel.IsActive() {
		b.cb = nil
		return
	}
	if b.err != nil {
		b.cb(nil, b.err, true)
		b.cb = nil
		return
	}
	if len(b.pending) == 0 && !b.complete {
		return
	}
	nUsed := b.cb(b.pending, nil, b.complete)
	if b.complete {
		b.pending = nil
		b.cb = nil
		return
	}
	if nUsed > len(b.pending) {
		panic("streams: consumer reported using more bytes than were delivered")
	}
	b.pending = b.pending[nUsed:]
}

// errorData wraps an *object.Error for callers that want to inspect
// the kind/description through the shared capability type rather than
// a bare Go error.
func errorData(err error) *object.Error {
	if e, ok := err.(*object.Error); ok {
		return e
	}
	return object.WrapError(err.Error(), err)
}
