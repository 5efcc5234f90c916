package native

import (
	"bytes"
	"unsafe"
)

// CString is a NUL-terminated copy of a Go value, owned by the caller until
// the native call that receives it has returned.
type CString struct {
	buf []byte
}

// NewCString copies s into a NUL-terminated buffer.
func NewCString(s string) (*CString, error) {
	if i := indexNUL(s); i >= 0 {
		return nil, &MarshalError{Offset: i}
	}
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return &CString{buf: buf}, nil
}

// NewCStringBytes copies b into a NUL-terminated buffer. b is not retained.
func NewCStringBytes(b []byte) (*CString, error) {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return nil, &MarshalError{Offset: i}
	}
	buf := make([]byte, len(b)+1)
	copy(buf, b)
	return &CString{buf: buf}, nil
}

func indexNUL(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return i
		}
	}
	return -1
}

// Ptr returns the address of the first byte. The pointer is only valid while
// the CString is reachable.
func (c *CString) Ptr() *byte {
	if c == nil || len(c.buf) == 0 {
		return nil
	}
	return &c.buf[0]
}

// Len is the length of the value without the terminator.
func (c *CString) Len() int {
	if c == nil || len(c.buf) == 0 {
		return 0
	}
	return len(c.buf) - 1
}

// String returns the marshaled value without the terminator.
func (c *CString) String() string {
	if c == nil || len(c.buf) == 0 {
		return ""
	}
	return string(c.buf[:len(c.buf)-1])
}

// goString copies the NUL-terminated C string at p into Go memory.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	ptr := *(*unsafe.Pointer)(unsafe.Pointer(&p))
	n := 0
	for *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(ptr), n))
}
