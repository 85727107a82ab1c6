package uttypes

// Numeric is the set of element types a typed numeric list (§3, §4.2)
// may hold: uint8/16/32/64 or float64. Go generics let the four
// concrete C types (UtUint16List, UtUint32List, ...) collapse into one
// implementation parameterized by element type, the natural
// simplification once the target language actually has generics.
type Numeric interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float64
}

// TypedList is an owned, contiguous, typed numeric list: the
// "typed read, raw buffer borrow, take-ownership-of-buffer" capability
// from §4.2, generalized over element type.
type TypedList[T Numeric] struct {
	data []T
}

// NewTypedList wraps data directly (no copy).
func NewTypedList[T Numeric](data []T) *TypedList[T] {
	return &TypedList[T]{data: data}
}

func (l *TypedList[T]) Len() int            { return len(l.data) }
func (l *TypedList[T]) GetElement(i int) T  { return l.data[i] }
func (l *TypedList[T]) RawBuffer() []T      { return l.data }
func (l *TypedList[T]) Mutable() bool       { return true }

func (l *TypedList[T]) Copy() List {
	cp := make([]T, len(l.data))
	copy(cp, l.data)
	return &TypedList[T]{data: cp}
}

// TakeData hands over the backing slice and empties the list.
func (l *TypedList[T]) TakeData() []T {
	d := l.data
	l.data = nil
	return d
}

func (l *TypedList[T]) Append(v T) {
	l.data = append(l.data, v)
}

// Uint16List, Uint32List, Uint64List, Float64List are the concrete
// instantiations named in §3's capability taxonomy.
type (
	Uint16List  = TypedList[uint16]
	Uint32List  = TypedList[uint32]
	Uint64List  = TypedList[uint64]
	Float64List = TypedList[float64]
)
