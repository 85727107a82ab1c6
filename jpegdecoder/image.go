// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package jpegdecoder implements the JPEG baseline decoder (C8): a
// marker-driven state machine reading a JFIF byte stream, producing a
// decoded raster image (§4.8, ITU-T T.81 baseline process).
package jpegdecoder

// Image is the decoded raster: Pixels holds NumComponents interleaved
// bytes per pixel, row-major, Width*Height*NumComponents bytes total.
// A single-component image is greyscale; a three-component image has
// already been converted from YCbCr to RGB (§4.8 "Color conversion");
// four components are written channel-raw.
type Image struct {
	Width         int
	Height        int
	NumComponents int
	Pixels        []byte

	ThumbnailWidth  int
	ThumbnailHeight int
	Thumbnail       []byte
	Comment         string
}
