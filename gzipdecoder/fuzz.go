package gzipdecoder

import "github.com/saferwall/ut/streams"

// Fuzz is the go-fuzz entry point for the gzip/zlib decoder (§4.7).
// A malformed member is an expected outcome (return 0); a panic is a
// bug go-fuzz is meant to surface.
func Fuzz(data []byte) int {
	src := streams.NewListInputStream(data)
	ok := 0
	New(src).Read(func(out []byte, err error, complete bool) int {
		if err == nil && complete {
			ok = 1
		}
		return len(out)
	}, nil)
	return ok
}
