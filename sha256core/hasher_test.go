package sha256core_test

import (
	"bytes"
	"encoding"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"massnet.org/shapipe/sha256core"
)

type vector struct {
	name string
	in   []byte
	want string
}

func fipsVectors() []vector {
	return []vector{
		{"empty", []byte(""), "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", []byte("abc"), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{
			"two-block",
			[]byte("abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq"),
			"248d6a61d20638b8e5c026930c3e6039a33ce45964ff2167f6ecedd419db06c1",
		},
	}
}

func TestSum256_FIPSVectors(t *testing.T) {
	for _, v := range fipsVectors() {
		v := v
		t.Run(v.name, func(t *testing.T) {
			got := sha256core.Sum256(v.in)
			assert.Equal(t, v.want, hex.EncodeToString(got[:]))
		})
	}
}

func TestSum256_MillionA(t *testing.T) {
	h := sha256core.New()
	chunk := bytes.Repeat([]byte("a"), 1000)
	for i := 0; i < 1000; i++ {
		assert.NoError(t, h.Update(chunk))
	}
	got, err := h.Finalize()
	assert.NoError(t, err)
	assert.Equal(t, "cdc76e5c9914fb9281a1c7e284d73e67f1809a48a497200e046d39ccc7112cd0", hex.EncodeToString(got[:]))
}

func TestHasher_ChunkingIndependence(t *testing.T) {
	msg := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog", 37))

	whole := sha256core.New()
	assert.NoError(t, whole.Update(msg))
	wantDigest, err := whole.Finalize()
	assert.NoError(t, err)

	splits := [][]int{{0}, {1, 3, 7}, {len(msg) / 2}, {55, 56, 63, 64, 65}}
	for _, cuts := range splits {
		h := sha256core.New()
		pos := 0
		for _, c := range cuts {
			if c <= pos || c >= len(msg) {
				continue
			}
			assert.NoError(t, h.Update(msg[pos:c]))
			pos = c
		}
		assert.NoError(t, h.Update(msg[pos:]))
		got, err := h.Finalize()
		assert.NoError(t, err)
		assert.Equal(t, wantDigest, got)
	}
}

func TestHasher_ResetIdempotence(t *testing.T) {
	msg := []byte("reset idempotence fixture")

	h1 := sha256core.New()
	assert.NoError(t, h1.Update(msg))
	d1, err := h1.Finalize()
	assert.NoError(t, err)

	h2 := sha256core.New()
	h2.Reset()
	h2.Reset()
	assert.NoError(t, h2.Update(msg))
	d2, err := h2.Finalize()
	assert.NoError(t, err)

	assert.Equal(t, d1, d2)
}

func TestHasher_UpdateAfterFinalizeFails(t *testing.T) {
	h := sha256core.New()
	assert.NoError(t, h.Update([]byte("x")))
	_, err := h.Finalize()
	assert.NoError(t, err)

	err = h.Update([]byte("y"))
	assert.Error(t, err)

	h.Reset()
	assert.NoError(t, h.Update([]byte("y")))
}

func TestHasher_PaddingBoundaries(t *testing.T) {
	cases := []struct {
		length int
		want   string
	}{
		{55, "9f4390f8d30c2dd92ec9f095b65e2b9ae9b0a925a5258e241c9f1e910f734318"},
		{56, "b35439a4ac6f0948b6d6f9e3c6af0f5f590ce20f1bde7090ef7970686ec6738a"},
		{64, "ffe054fe7ae0cb6dc65c3af9b61d5209f439851db43d0ba5997337df154668eb"},
	}
	for _, c := range cases {
		msg := bytes.Repeat([]byte("a"), c.length)
		got := sha256core.Sum256(msg)
		assert.Equal(t, c.want, hex.EncodeToString(got[:]), "length=%d", c.length)
	}
}

func TestHasher_MultiEngineEquivalence(t *testing.T) {
	msg := []byte(strings.Repeat("lane-chain equivalence fixture ", 50))
	single := sha256core.Sum256(msg)

	for _, n := range []int{1, 2, 4, 8} {
		h := sha256core.NewPipelined(n)
		assert.NoError(t, h.Update(msg))
		got, err := h.Finalize()
		assert.NoError(t, err)
		assert.Equal(t, single, got, "lanes=%d", n)
	}
}

func TestHasher_BoundedBufferOverflow(t *testing.T) {
	h := sha256core.NewBounded(4)
	err := h.Update([]byte("12345"))
	assert.Error(t, err)
}

func TestHasher_MarshalRoundTrip(t *testing.T) {
	const (
		part1 = "The tunneling gopher digs downwards, "
		part2 = "unaware of what he will find."
	)

	first := sha256core.New()
	assert.NoError(t, first.Update([]byte(part1)))

	marshaler, ok := interface{}(first).(encoding.BinaryMarshaler)
	assert.True(t, ok)
	state, err := marshaler.MarshalBinary()
	assert.NoError(t, err)

	second := sha256core.New()
	unmarshaler, ok := interface{}(second).(encoding.BinaryUnmarshaler)
	assert.True(t, ok)
	assert.NoError(t, unmarshaler.UnmarshalBinary(state))

	assert.NoError(t, first.Update([]byte(part2)))
	assert.NoError(t, second.Update([]byte(part2)))

	d1, err := first.Finalize()
	assert.NoError(t, err)
	d2, err := second.Finalize()
	assert.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestHasher_SizeAndBlockSize(t *testing.T) {
	h := sha256core.New()
	assert.Equal(t, 32, h.Size())
	assert.Equal(t, 64, h.BlockSize())
}
