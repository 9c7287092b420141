package sha256core

import (
	"encoding/binary"

	sherrors "massnet.org/shapipe/errors"
)

// controllerState is the message controller's lifecycle state machine:
//
//	idle -- feed() --> receive -- finish() --> ready -- reset() --> idle
//
// finish() is also legal directly from idle (an empty message). The
// controller stays in ready, serving words, until reset().
type controllerState int

const (
	csIdle controllerState = iota
	csReceive
	csReady // padding, length-append and block-count computation are collapsed into one transition
)

// defaultBufferCap is the baseline bounded-buffer capacity;
// newBoundedController falls back to it when given a non-positive
// capacity. Controllers built with newController enforce no cap.
const defaultBufferCap = 1024

// messageController owns the message buffer: it accepts bytes one at
// a time, applies FIPS 180-4 §5.1.1 padding on finish(), and serves
// 32-bit big-endian words to compression engines by (block, word)
// coordinates.
type messageController struct {
	state      controllerState
	buf        []byte // original bytes; grows unbounded unless bounded is set
	bounded    bool
	cap        int
	bitLen     uint64 // original length in bits, tracked independently of len(buf) for overflow safety
	padded     []byte // buf + 0x80 + zero-fill + 8-byte length trailer, built on finish()
	blockCount int
}

func newController() *messageController {
	return &messageController{buf: make([]byte, 0, BlockSize)}
}

func newBoundedController(capacity int) *messageController {
	if capacity <= 0 {
		capacity = defaultBufferCap
	}
	return &messageController{buf: make([]byte, 0, capacity), bounded: true, cap: capacity}
}

// reset returns the controller to idle and clears all buffered state.
func (c *messageController) reset() {
	c.state = csIdle
	c.buf = c.buf[:0]
	c.bitLen = 0
	c.padded = nil
	c.blockCount = 0
}

// feed appends one byte to the message. It is valid from idle (the
// first byte transitions to receive) or from receive; any other state
// is a lifecycle violation.
func (c *messageController) feed(b byte) error {
	switch c.state {
	case csIdle:
		c.state = csReceive
	case csReceive:
		// already receiving
	default:
		return sherrors.New(sherrors.ErrEngineState)
	}
	if c.bounded && len(c.buf) >= c.cap {
		return sherrors.New(sherrors.ErrEngineOverflow)
	}
	c.buf = append(c.buf, b)
	c.bitLen += 8
	return nil
}

// feedBytes appends a slice of bytes; it is equivalent to calling feed
// once per byte, in order.
func (c *messageController) feedBytes(p []byte) error {
	for _, b := range p {
		if err := c.feed(b); err != nil {
			return err
		}
	}
	return nil
}

// finish signals end-of-stream: it performs the FIPS 180-4 §5.1.1
// padding (mandatory 0x80 byte, zero fill to 56 mod 64, then the
// original bit-length as a 64-bit big-endian trailer) and computes
// the immutable block count. It is legal from idle (an empty message)
// or receive.
func (c *messageController) finish() error {
	if c.state != csIdle && c.state != csReceive {
		return sherrors.New(sherrors.ErrEngineState)
	}

	padded := make([]byte, len(c.buf), len(c.buf)+BlockSize+8)
	copy(padded, c.buf)
	padded = append(padded, 0x80)
	for len(padded)%BlockSize != 56 {
		padded = append(padded, 0)
	}
	var lenTrailer [8]byte
	binary.BigEndian.PutUint64(lenTrailer[:], c.bitLen)
	padded = append(padded, lenTrailer[:]...)

	c.padded = padded
	c.blockCount = len(padded) / BlockSize
	c.state = csReady
	return nil
}

// blockCountValue returns the final block count. Only meaningful once
// finish() has succeeded.
func (c *messageController) blockCountValue() int {
	return c.blockCount
}

// ready reports whether finish() has completed and word() may be
// called.
func (c *messageController) ready() bool {
	return c.state == csReady
}

// word returns the 32-bit big-endian word at position wordIdx (0..15)
// of block blockIdx (0..blockCount). It is a pure read: repeated calls
// with the same coordinates return the same value, and no sequence of
// calls mutates the buffer.
func (c *messageController) word(blockIdx, wordIdx int) (uint32, error) {
	if !c.ready() {
		return 0, sherrors.New(sherrors.ErrEngineState)
	}
	if blockIdx < 0 || blockIdx >= c.blockCount || wordIdx < 0 || wordIdx > 15 {
		return 0, sherrors.Wrap(sherrors.ErrEngineRange,
			"word index out of range")
	}
	off := blockIdx*BlockSize + wordIdx*4
	return binary.BigEndian.Uint32(c.padded[off : off+4]), nil
}
