package streams

import (
	"io"

	"github.com/saferwall/ut/eventloop"
)

// ReadSync drives loop to the completion of a single read from stream
// and returns the fully-received buffer, or the error the stream
// reported. It exists only for tests and tools — library internals
// must never block the loop this way (§4.4 "Synchronous adapter").
func ReadSync(loop *eventloop.Loop, stream InputStream) ([]byte, error) {
	var result []byte
	var resultErr error
	cancel := NewCancel()

	stream.Read(func(data []byte, err error, complete bool) int {
		if err != nil {
			resultErr = err
			loop.Return(nil)
			return 0
		}
		if complete {
			result = append([]byte(nil), data...)
			loop.Return(nil)
			return len(data)
		}
		return 0
	}, cancel)

	// Give the loop something to iterate on even if the stream has
	// already buffered everything and will only deliver on the next
	// CheckBuffer-style nudge; a zero-length timer that calls
	// CheckBuffer gives it that nudge on the loop's first pass, so
	// callers that already pushed all bytes (e.g. synchronous test
	// fixtures) still observe completion.
	loop.AddDelay(0, stream.CheckBuffer, NewCancel())
	loop.Run()

	return result, resultErr
}

// ReadSyncTee is ReadSync plus a fan-out logging tap: once the read
// completes, the full buffer is written to every tap through a
// Multiwriter, the one caller in this module that needs a writer
// multiplexer rather than a second InputStream consumer (§4.4
// "Synchronous adapter").
func ReadSyncTee(loop *eventloop.Loop, stream InputStream, taps ...io.Writer) ([]byte, error) {
	data, err := ReadSync(loop, stream)
	if err != nil {
		return nil, err
	}
	if len(taps) == 0 {
		return data, nil
	}
	mw := NewMultiwriter()
	for _, tap := range taps {
		mw.Add(tap)
	}
	if _, err := mw.Write(data); err != nil {
		return data, err
	}
	return data, nil
}
