package sha256core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestController_EmptyMessagePadding(t *testing.T) {
	c := newController()
	assert.NoError(t, c.finish())
	assert.Equal(t, 1, c.blockCountValue())

	w0, err := c.word(0, 0)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x80000000), w0)

	for i := 1; i < 14; i++ {
		w, err := c.word(0, i)
		assert.NoError(t, err)
		assert.Equal(t, uint32(0), w, "word %d", i)
	}
	lenHi, err := c.word(0, 14)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), lenHi)
	lenLo, err := c.word(0, 15)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), lenLo)
}

func TestController_OneExtraBlockAtBoundary(t *testing.T) {
	c := newController()
	assert.NoError(t, c.feedBytes(make([]byte, 64)))
	assert.NoError(t, c.finish())
	assert.Equal(t, 2, c.blockCountValue())
}

func TestController_WordFetchPurity(t *testing.T) {
	c := newController()
	assert.NoError(t, c.feedBytes([]byte("purity check fixture bytes......")))
	assert.NoError(t, c.finish())

	first, err := c.word(0, 3)
	assert.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := c.word(0, 3)
		assert.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestController_WordBeforeDoneFails(t *testing.T) {
	c := newController()
	assert.NoError(t, c.feed('x'))
	_, err := c.word(0, 0)
	assert.Error(t, err)
}

func TestController_WordOutOfRangeFails(t *testing.T) {
	c := newController()
	assert.NoError(t, c.finish())
	_, err := c.word(0, 16)
	assert.Error(t, err)
	_, err = c.word(1, 0)
	assert.Error(t, err)
	_, err = c.word(-1, 0)
	assert.Error(t, err)
}

func TestController_FeedAfterFinishFails(t *testing.T) {
	c := newController()
	assert.NoError(t, c.finish())
	err := c.feed('x')
	assert.Error(t, err)
}

func TestController_BoundedOverflow(t *testing.T) {
	c := newBoundedController(3)
	assert.NoError(t, c.feed('a'))
	assert.NoError(t, c.feed('b'))
	assert.NoError(t, c.feed('c'))
	err := c.feed('d')
	assert.Error(t, err)
}

func TestController_ResetClearsState(t *testing.T) {
	c := newController()
	assert.NoError(t, c.feedBytes([]byte("some bytes")))
	c.reset()
	assert.Equal(t, 0, len(c.buf))
	assert.Equal(t, uint64(0), c.bitLen)
	assert.False(t, c.ready())
	assert.NoError(t, c.finish())
	assert.Equal(t, 1, c.blockCountValue())
}
