package sha256core

import (
	"encoding/binary"

	sherrors "massnet.org/shapipe/errors"
	"massnet.org/shapipe/logging"
)

// hasherState tracks the reset -> update* -> finalize lifecycle:
// update after finalize is a StateError until the next reset.
type hasherState int

const (
	hsActive hasherState = iota
	hsFinalized
)

// Hasher is the top-level digest service: it composes the message
// controller with either a single Engine or a Pipeline, depending on
// how many lanes it was constructed with.
type Hasher struct {
	ctl    *messageController
	lanes  int
	state  hasherState
	digest [Size]byte
}

// New constructs a single-engine Hasher seeded with the FIPS initial
// hash values, and an unbounded message buffer.
func New() *Hasher {
	return &Hasher{ctl: newController(), lanes: 1}
}

// NewBounded constructs a single-engine Hasher whose message buffer
// is capped at capacity bytes; feed() past that capacity returns
// ErrEngineOverflow.
func NewBounded(capacity int) *Hasher {
	return &Hasher{ctl: newBoundedController(capacity), lanes: 1}
}

// NewPipelined constructs a Hasher that dispatches blocks across n
// parallel compression lanes instead of a single engine. For n == 1
// this is equivalent to New.
func NewPipelined(n int) *Hasher {
	return &Hasher{ctl: newController(), lanes: n}
}

// NewBoundedPipelined combines NewBounded and NewPipelined: the message
// buffer is capped at capacity bytes and blocks are dispatched across n
// parallel compression lanes.
func NewBoundedPipelined(capacity, n int) *Hasher {
	return &Hasher{ctl: newBoundedController(capacity), lanes: n}
}

// Reset returns the Hasher to its initial state, as if newly
// constructed, discarding any buffered bytes.
func (h *Hasher) Reset() {
	h.ctl.reset()
	h.state = hsActive
	h.digest = [Size]byte{}
	logging.VPrint(logging.INFO, "hasher reset", logging.LogFormat{})
}

// Write implements io.Writer, appending p to the message. It returns
// len(p) and a nil error on success; an ErrEngineOverflow from a
// bounded buffer, or ErrEngineState if called after Finalize and
// before Reset, is surfaced as the returned error with n reflecting
// how many bytes were actually accepted.
func (h *Hasher) Write(p []byte) (int, error) {
	if h.state == hsFinalized {
		return 0, sherrors.New(sherrors.ErrEngineState)
	}
	for i, b := range p {
		if err := h.ctl.feed(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Update appends bytes to the message; it is a thin wrapper over Write
// that discards the byte count.
func (h *Hasher) Update(p []byte) error {
	_, err := h.Write(p)
	return err
}

// Finalize pads the buffered message, dispatches its blocks across
// the configured engine(s), and returns the 32-byte digest in FIPS
// big-endian order. Calling Finalize again before Reset returns the
// same digest without recomputing it; Update after Finalize fails
// with ErrEngineState until Reset.
func (h *Hasher) Finalize() ([Size]byte, error) {
	if h.state == hsFinalized {
		return h.digest, nil
	}
	if err := h.ctl.finish(); err != nil {
		return [Size]byte{}, err
	}

	numBlocks := h.ctl.blockCountValue()
	var out [Size]byte
	if h.lanes <= 1 {
		eng := NewEngine(h.ctl)
		eng.Start(numBlocks, initH)
		if err := eng.Run(); err != nil {
			return [Size]byte{}, err
		}
		out = eng.Digest()
	} else {
		pipe, err := NewPipeline(h.ctl, h.lanes)
		if err != nil {
			return [Size]byte{}, err
		}
		defer pipe.Release()
		finalH, err := pipe.Run(numBlocks, initH)
		if err != nil {
			return [Size]byte{}, err
		}
		out = packDigest(finalH)
	}

	h.digest = out
	h.state = hsFinalized
	logging.VPrint(logging.INFO, "hasher finalized",
		logging.LogFormat{"blocks": numBlocks, "lanes": h.lanes})
	return out, nil
}

// Size returns the number of bytes Finalize returns: 32.
func (h *Hasher) Size() int { return Size }

// BlockSize returns the engine's natural block size: 64.
func (h *Hasher) BlockSize() int { return BlockSize }

// Sum256 is a one-shot convenience wrapper equivalent to
// New().Update(p); digest, _ := Finalize().
func Sum256(p []byte) [Size]byte {
	h := New()
	_ = h.Update(p)
	digest, _ := h.Finalize()
	return digest
}

// marshaledStateMagic tags the wire format produced by MarshalBinary
// so UnmarshalBinary can reject state from an incompatible encoding.
const marshaledStateMagic = "sha256core.v1"

// MarshalBinary snapshots the in-progress message buffer so a Hasher
// can be checkpointed mid-stream and resumed later with
// UnmarshalBinary. It is only valid before Finalize; the suspension
// point between Update calls is exactly where this snapshot is
// coherent, because the controller is quiescent and no engine holds
// state across calls in single-engine collapsed mode.
func (h *Hasher) MarshalBinary() ([]byte, error) {
	if h.state == hsFinalized {
		return nil, sherrors.New(sherrors.ErrEngineState)
	}
	buf := make([]byte, 0, len(marshaledStateMagic)+8+4+len(h.ctl.buf))
	buf = append(buf, marshaledStateMagic...)
	var bitLen [8]byte
	binary.BigEndian.PutUint64(bitLen[:], h.ctl.bitLen)
	buf = append(buf, bitLen[:]...)
	var lanes [4]byte
	binary.BigEndian.PutUint32(lanes[:], uint32(h.lanes))
	buf = append(buf, lanes[:]...)
	buf = append(buf, h.ctl.buf...)
	return buf, nil
}

// UnmarshalBinary restores state captured by MarshalBinary. It resets
// the Hasher first, discarding any bytes already buffered.
func (h *Hasher) UnmarshalBinary(data []byte) error {
	prefixLen := len(marshaledStateMagic) + 8 + 4
	if len(data) < prefixLen || string(data[:len(marshaledStateMagic)]) != marshaledStateMagic {
		return sherrors.Wrap(sherrors.ErrEngineRange, "unrecognized marshaled hasher state")
	}
	bitLen := binary.BigEndian.Uint64(data[len(marshaledStateMagic) : len(marshaledStateMagic)+8])
	lanes := binary.BigEndian.Uint32(data[len(marshaledStateMagic)+8 : prefixLen])

	h.Reset()
	h.lanes = int(lanes)
	if err := h.ctl.feedBytes(data[prefixLen:]); err != nil {
		return err
	}
	if h.ctl.bitLen != bitLen {
		return sherrors.Wrap(sherrors.ErrEngineRange, "marshaled bit length does not match payload")
	}
	return nil
}
