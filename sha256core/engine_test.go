package sha256core

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngine_RunMatchesStepByStep(t *testing.T) {
	c := newController()
	assert.NoError(t, c.feedBytes([]byte("abc")))
	assert.NoError(t, c.finish())
	numBlocks := c.blockCountValue()

	runEngine := NewEngine(c)
	runEngine.Start(numBlocks, initH)
	assert.NoError(t, runEngine.Run())

	stepEngine := NewEngine(c)
	stepEngine.Start(numBlocks, initH)
	for {
		busy, done := stepEngine.Poll()
		if done {
			break
		}
		assert.True(t, busy)
		_, err := stepEngine.Step()
		assert.NoError(t, err)
	}

	runDigest := runEngine.Digest()
	assert.Equal(t, runDigest, stepEngine.Digest())
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		hex.EncodeToString(runDigest[:]))
}

func TestEngine_AtMostOneBlockInFlight(t *testing.T) {
	c := newController()
	assert.NoError(t, c.feedBytes(make([]byte, 130))) // 3 blocks after padding
	assert.NoError(t, c.finish())

	e := NewEngine(c)
	e.Start(c.blockCountValue(), initH)

	seenBlocks := map[int]bool{}
	lastState := esIdle
	for {
		busy, done := e.Poll()
		if done {
			break
		}
		assert.True(t, busy)
		if e.state == esLoad && lastState != esLoad {
			assert.False(t, seenBlocks[e.blockIdx], "block %d loaded twice", e.blockIdx)
			seenBlocks[e.blockIdx] = true
		}
		lastState = e.state
		_, err := e.Step()
		assert.NoError(t, err)
	}
	assert.Equal(t, c.blockCountValue(), len(seenBlocks))
}

func TestEngine_StepBeforeStartFails(t *testing.T) {
	c := newController()
	assert.NoError(t, c.finish())
	e := NewEngine(c)
	_, err := e.Step()
	assert.Error(t, err)
}

func TestEngine_RunBeforeStartFails(t *testing.T) {
	c := newController()
	assert.NoError(t, c.finish())
	e := NewEngine(c)
	err := e.Run()
	assert.Error(t, err)
}
