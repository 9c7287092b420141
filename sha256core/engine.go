package sha256core

import (
	sherrors "massnet.org/shapipe/errors"
)

// wordFetcher is the read-only contract an engine uses to pull
// schedule words from the controller. messageController satisfies it.
type wordFetcher interface {
	word(blockIdx, wordIdx int) (uint32, error)
}

// engineState is the per-block state machine: each block passes
// through load, extend, compress, update and dispatch in order; the
// engine idles until start() and finalizes after the last block's
// update.
type engineState int

const (
	esIdle engineState = iota
	esLoad
	esExtend
	esCompress
	esUpdate
	esDispatch
	esFinalize
)

// Engine is a single compression engine: it pulls 16-word blocks from
// a wordFetcher, expands them to a 64-word schedule, runs the 64
// compression rounds, and folds the result into its hash state H.
//
// Engine exposes both a collapsed, single-call Run (block-at-a-time)
// and a cycle-accurate Step, so the same state machine backs ordinary
// library use and accelerator-emulation tests that assert the
// handshake invariants directly.
type Engine struct {
	src      wordFetcher
	state    engineState
	numBlock int
	blockIdx int

	h [8]uint32
	w [64]uint32

	// working variables, valid only during esCompress
	a, b, c, d, e, f, g, hh uint32
	round                   int // 0..63 within esExtend/esCompress
	loadIdx                 int // 0..15 within esLoad
}

// NewEngine constructs an idle engine bound to src.
func NewEngine(src wordFetcher) *Engine {
	return &Engine{src: src, state: esIdle}
}

// Start begins processing numBlocks blocks, seeding the hash state
// from h (FIPS H⁰ for the first engine of a chain, or the previous
// engine's finalized state in multi-engine mode). A zero numBlocks
// leaves the engine done at once with h unchanged; the controller
// never yields zero, since even an empty stream pads to one block.
func (e *Engine) Start(numBlocks int, h [8]uint32) {
	e.state = esLoad
	e.numBlock = numBlocks
	e.blockIdx = 0
	e.h = h
	e.loadIdx = 0
	e.round = 0
	if numBlocks == 0 {
		e.state = esFinalize
	}
}

// Poll reports busy while the engine is still processing, and done
// once Digest() may be called.
func (e *Engine) Poll() (busy, done bool) {
	switch e.state {
	case esIdle:
		return false, false
	case esFinalize:
		return false, true
	default:
		return true, false
	}
}

// Digest returns the current hash state as 32 big-endian bytes. It is
// only meaningful once Poll reports done.
func (e *Engine) Digest() [Size]byte {
	return packDigest(e.h)
}

// HashState returns the engine's 8-word hash state by value, for
// handing off to the next engine in a chain.
func (e *Engine) HashState() [8]uint32 {
	return e.h
}

// Run drives the engine to completion across all of its blocks,
// collapsing the per-cycle state machine into straight-line
// computation. This is the path the single-engine Hasher uses.
func (e *Engine) Run() error {
	for {
		busy, done := e.Poll()
		if done {
			return nil
		}
		if !busy {
			return sherrors.New(sherrors.ErrEngineState)
		}
		if err := e.runBlock(); err != nil {
			return err
		}
	}
}

// runBlock executes one full LOAD->EXTEND->COMPRESS->UPDATE->DISPATCH
// cycle synchronously; it is the collapsed-mode counterpart of
// repeatedly calling Step.
func (e *Engine) runBlock() error {
	if e.state != esLoad {
		return sherrors.New(sherrors.ErrEngineState)
	}
	w, err := loadSchedule(e.src, e.blockIdx)
	if err != nil {
		return err
	}
	e.w = w
	e.state = esCompress
	e.h = compressBlock(e.h, e.w)
	e.state = esDispatch
	e.dispatch()
	return nil
}

// loadSchedule pulls W[0..15] from src by sequential word-fetch and
// expands them to the full 64-word message schedule via the σ
// recurrence. It has no dependency on hash state, which is what lets
// a pipeline overlap it with the previous block's compression.
func loadSchedule(src wordFetcher, blockIdx int) ([64]uint32, error) {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		word, err := src.word(blockIdx, i)
		if err != nil {
			return w, err
		}
		w[i] = word
	}
	for i := 16; i < 64; i++ {
		w[i] = smallSigma1(w[i-2]) + w[i-7] + smallSigma0(w[i-15]) + w[i-16]
	}
	return w, nil
}

// compressBlock runs the 64 compression rounds over working variables
// seeded from h and folds the result back into h by wrapping 32-bit
// addition. It is a pure function of its inputs, which lets a
// pipeline chain it across lanes without any engine holding state
// across the call.
func compressBlock(h [8]uint32, w [64]uint32) [8]uint32 {
	a, b, c, d, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]
	for t := 0; t < 64; t++ {
		t1 := hh + bigSigma1(e) + ch(e, f, g) + roundK[t] + w[t]
		t2 := bigSigma0(a) + maj(a, b, c)
		hh = g
		g = f
		f = e
		e = d + t1
		d = c
		c = b
		b = a
		a = t1 + t2
	}
	return [8]uint32{
		h[0] + a, h[1] + b, h[2] + c, h[3] + d,
		h[4] + e, h[5] + f, h[6] + g, h[7] + hh,
	}
}

func (e *Engine) dispatch() {
	e.blockIdx++
	if e.blockIdx < e.numBlock {
		e.state = esLoad
		e.loadIdx = 0
		e.round = 0
		return
	}
	e.state = esFinalize
}

// Step advances the engine by one cycle-accurate unit: one word
// loaded, one schedule word extended, one compression round, or one
// of the single-shot update/dispatch transitions. It returns the
// engine's current state after the step, for tests that assert the
// handshake invariants (at most one block in flight, LOAD/EXTEND
// overlap forbidden within a single engine) directly against the
// per-block FSM.
func (e *Engine) Step() (engineState, error) {
	switch e.state {
	case esIdle, esFinalize:
		return e.state, sherrors.New(sherrors.ErrEngineState)
	case esLoad:
		word, err := e.src.word(e.blockIdx, e.loadIdx)
		if err != nil {
			return e.state, err
		}
		e.w[e.loadIdx] = word
		e.loadIdx++
		if e.loadIdx == 16 {
			e.state = esExtend
			e.round = 16
		}
	case esExtend:
		i := e.round
		e.w[i] = smallSigma1(e.w[i-2]) + e.w[i-7] + smallSigma0(e.w[i-15]) + e.w[i-16]
		e.round++
		if e.round == 64 {
			e.a, e.b, e.c, e.d = e.h[0], e.h[1], e.h[2], e.h[3]
			e.e, e.f, e.g, e.hh = e.h[4], e.h[5], e.h[6], e.h[7]
			e.state = esCompress
			e.round = 0
		}
	case esCompress:
		t := e.round
		t1 := e.hh + bigSigma1(e.e) + ch(e.e, e.f, e.g) + roundK[t] + e.w[t]
		t2 := bigSigma0(e.a) + maj(e.a, e.b, e.c)
		e.hh = e.g
		e.g = e.f
		e.f = e.e
		e.e = e.d + t1
		e.d = e.c
		e.c = e.b
		e.b = e.a
		e.a = t1 + t2
		e.round++
		if e.round == 64 {
			e.state = esUpdate
		}
	case esUpdate:
		e.h[0] += e.a
		e.h[1] += e.b
		e.h[2] += e.c
		e.h[3] += e.d
		e.h[4] += e.e
		e.h[5] += e.f
		e.h[6] += e.g
		e.h[7] += e.hh
		e.state = esDispatch
	case esDispatch:
		e.dispatch()
	}
	return e.state, nil
}

// packDigest concatenates h as 8 big-endian 32-bit words, H0 first.
func packDigest(h [8]uint32) [Size]byte {
	var out [Size]byte
	for i, v := range h {
		out[i*4] = byte(v >> 24)
		out[i*4+1] = byte(v >> 16)
		out[i*4+2] = byte(v >> 8)
		out[i*4+3] = byte(v)
	}
	return out
}
