package streams

// ListInputStream is an InputStream over a fixed, already-fully-known
// byte slice, the push-based counterpart of
// ut_list_input_stream_new — the source every decoder test in this
// module wraps its fixture bytes in before handing them to a decoder.
type ListInputStream struct {
	Buffer
	data []byte
}

// NewListInputStream wraps data, delivering it as a single complete
// buffer to whichever consumer registers via Read.
func NewListInputStream(data []byte) *ListInputStream {
	return &ListInputStream{data: data}
}

func (s *ListInputStream) Read(cb ReadCallback, cancel *Cancel) {
	s.Buffer.Read(cb, cancel)
	s.Buffer.Push(s.data, nil, true)
}
