package uttypes

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// SharedMemoryArray owns an mmap'd region plus its backing file
// descriptor, the fourth Uint8List identity from §3. It is read-only
// here (decoders never need a writable mapping), always immutable,
// and its Close is the scoped-acquisition release point the data model
// calls for: the mmap and the fd are released together.
//
// This is the teacher's own pattern: pe.File.data is a mmap.MMap
// opened the same way in pe.New.
type SharedMemoryArray struct {
	f    *os.File
	data mmap.MMap
}

// NewSharedMemoryArray memory-maps name read-only.
func NewSharedMemoryArray(name string) (*SharedMemoryArray, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &SharedMemoryArray{f: f, data: data}, nil
}

// Close unmaps the region and closes the file descriptor. Safe to
// call once; calling it twice is a caller error, matching the
// teacher's pe.File.Close.
func (a *SharedMemoryArray) Close() error {
	if a.data != nil {
		if err := a.data.Unmap(); err != nil {
			return err
		}
		a.data = nil
	}
	return a.f.Close()
}

func (a *SharedMemoryArray) Len() int               { return len(a.data) }
func (a *SharedMemoryArray) GetElement(i int) uint8 { return a.data[i] }
func (a *SharedMemoryArray) RawBuffer() []byte      { return []byte(a.data) }
func (a *SharedMemoryArray) Mutable() bool          { return false }
func (a *SharedMemoryArray) Copy() List {
	cp := make([]byte, len(a.data))
	copy(cp, a.data)
	return &OwnedUint8Array{data: cp}
}
func (a *SharedMemoryArray) SubView(start, n int) Uint8List {
	return newUint8SubView(a, start, n)
}
func (a *SharedMemoryArray) TakeData() []byte {
	cp := make([]byte, len(a.data))
	copy(cp, a.data)
	return cp
}
