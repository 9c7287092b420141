package sha256core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipeline_MatchesSingleEngineAcrossLaneCounts(t *testing.T) {
	msg := bytes.Repeat([]byte("pipeline fixture "), 40)

	c := newController()
	assert.NoError(t, c.feedBytes(msg))
	assert.NoError(t, c.finish())
	numBlocks := c.blockCountValue()

	single := NewEngine(c)
	single.Start(numBlocks, initH)
	assert.NoError(t, single.Run())
	want := single.Digest()

	for _, n := range []int{1, 2, 3, 4, 8} {
		p, err := NewPipeline(c, n)
		assert.NoError(t, err)
		finalH, err := p.Run(numBlocks, initH)
		assert.NoError(t, err)
		p.Release()
		assert.Equal(t, want, packDigest(finalH), "lanes=%d", n)
	}
}

func TestPipeline_ZeroBlocksReturnsSeed(t *testing.T) {
	c := newController()
	assert.NoError(t, c.finish())

	p, err := NewPipeline(c, 4)
	assert.NoError(t, err)
	defer p.Release()

	got, err := p.Run(0, initH)
	assert.NoError(t, err)
	assert.Equal(t, initH, got)
}

func TestPipeline_RejectsZeroLanes(t *testing.T) {
	c := newController()
	_, err := NewPipeline(c, 0)
	assert.Error(t, err)
}

func TestPipeline_LanesIdleAfterRun(t *testing.T) {
	c := newController()
	assert.NoError(t, c.feedBytes(make([]byte, 5*64)))
	assert.NoError(t, c.finish())
	numBlocks := c.blockCountValue()

	p, err := NewPipeline(c, 3)
	assert.NoError(t, err)
	defer p.Release()

	_, err = p.Run(numBlocks, initH)
	assert.NoError(t, err)

	for _, l := range p.lanes {
		assert.Equal(t, laneIdle, l.status)
	}
}
