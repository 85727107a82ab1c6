// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package ut is the repository's root package: it opens on-disk codec
// inputs the same way the teacher's pe.New opens a PE image, mapping
// the file read-only rather than copying it into a Go []byte, and
// hands the mapped region to the rest of the toolkit as a
// streams.InputStream.
package ut

import (
	"github.com/saferwall/ut/internal/utlog"
	"github.com/saferwall/ut/streams"
	"github.com/saferwall/ut/uttypes"
)

var log = utlog.NewHelper("ut")

// File is an on-disk codec input, memory-mapped read-only the way
// pe.File.data is in the teacher (pe.New). Unlike the teacher, a File
// here has no format-specific structure of its own: it is purely a
// byte source. gzipdecoder.New and jpegdecoder.New accept it through
// its InputStream method; asn1.New takes a uttypes.Uint8List, which
// callers build from Bytes.
type File struct {
	shared *uttypes.SharedMemoryArray
}

// NewFile memory-maps name read-only. Closing the returned File
// unmaps the region; callers must not use any streams.InputStream
// obtained from it afterward.
func NewFile(name string) (*File, error) {
	shared, err := uttypes.NewSharedMemoryArray(name)
	if err != nil {
		log.Warn("failed to open codec input", "name", name, "error", err)
		return nil, err
	}
	log.Debug("mapped codec input", "name", name, "bytes", shared.Len())
	return &File{shared: shared}, nil
}

// Close unmaps the file. Safe to call once.
func (f *File) Close() error {
	return f.shared.Close()
}

// Bytes exposes the mapped region directly, for callers (such as
// codec CLIs) that want to pick a decoder based on a magic-number
// sniff before building a stream around it.
func (f *File) Bytes() []byte {
	return f.shared.RawBuffer()
}

// InputStream returns a streams.InputStream delivering the entire
// mapped file as a single complete chunk. ListInputStream stores the
// slice by reference and RawBuffer is a zero-copy view over the mmap'd
// region, but the stream's Buffer copies the bytes into its pending
// buffer when they are delivered.
func (f *File) InputStream() streams.InputStream {
	return streams.NewListInputStream(f.Bytes())
}
