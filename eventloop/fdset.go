package eventloop

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// fdSet and fdIsSet manipulate a unix.FdSet's bitmap directly. The
// generated type differs in element width across platforms (int64 on
// linux/amd64, int32 on 386), so the bit math is expressed in terms of
// the element type's bit width rather than a hardcoded constant.
func fdSet(set *unix.FdSet, fd int) {
	bitsPerWord := 8 * int(unsafe.Sizeof(set.Bits[0]))
	set.Bits[fd/bitsPerWord] |= 1 << (uint(fd) % uint(bitsPerWord))
}

func fdIsSet(set *unix.FdSet, fd int) bool {
	bitsPerWord := 8 * int(unsafe.Sizeof(set.Bits[0]))
	return set.Bits[fd/bitsPerWord]&(1<<(uint(fd)%uint(bitsPerWord))) != 0
}
