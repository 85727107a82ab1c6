package streams

// ReadAll buffers internally until the stream signals completion, then
// delivers the full accumulated buffer once via cb. On error it
// delivers the error immediately and stops (§4.4 "Read-all adapter").
func ReadAll(stream InputStream, cb func(data []byte, err error), cancel *Cancel) {
	var buf []byte
	stream.Read(func(data []byte, err error, complete bool) int {
		if err != nil {
			cb(nil, err)
			return 0
		}
		if complete {
			buf = append(buf, data...)
			cb(buf, nil)
			return len(data)
		}
		// Wait for all data; report nothing consumed so the stream
		// keeps accumulating and redelivers the whole prefix next time.
		_ = data
		return 0
	}, cancel)
}

// WritableInputStream is an input stream whose bytes are pushed by a
// producer's direct call rather than pulled from a lower stream (§4.4,
// "Writable input stream"). Write invokes the registered consumer's
// callback synchronously and returns how much it consumed. The gzip
// and zlib decoders do not bridge through it: they buffer their whole
// input and hand it to compress/flate directly.
type WritableInputStream struct {
	Buffer
}

// NewWritableInputStream returns an empty writable input stream ready
// to have a consumer registered via Read.
func NewWritableInputStream() *WritableInputStream {
	return &WritableInputStream{}
}

// Write pushes data into the stream and returns the consumer's
// consumption count for this call, matching
// "write(data, complete) -> n_used" from §4.4. The bytes not consumed
// remain buffered for the next Write.
func (w *WritableInputStream) Write(data []byte, complete bool) int {
	before := len(w.pending)
	w.Push(data, nil, complete)
	after := len(w.pending)
	// The delivery offered before+len(data) bytes and pending kept
	// what the consumer did not use, so the difference is the
	// consumer's nUsed for this delivery; it also counts bytes left
	// over from earlier Writes that the consumer used this time.
	consumed := (before + len(data)) - after
	if consumed < 0 {
		consumed = 0
	}
	return consumed
}
