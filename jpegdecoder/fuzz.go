package jpegdecoder

import (
	"github.com/saferwall/ut/object"
	"github.com/saferwall/ut/streams"
)

// Fuzz is the go-fuzz entry point for the baseline JPEG decoder
// (§4.8). A rejected stream is an expected outcome (return 0); a
// panic anywhere in the marker dispatch loop or the IDCT is a bug
// go-fuzz is meant to surface.
func Fuzz(data []byte) int {
	src := streams.NewListInputStream(data)
	ok := 0
	New(src).Decode(func(img *Image, err *object.Error) {
		if err == nil && img != nil {
			ok = 1
		}
	}, nil)
	return ok
}
