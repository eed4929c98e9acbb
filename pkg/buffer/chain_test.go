package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainAdvanceAcrossSegments(t *testing.T) {
	c := NewChain(ConstBuf("abc"), ConstBuf("de"), ConstBuf("f"))

	assert.Equal(t, ConstBuf("abc"), c.Current())
	c.Advance(2)
	assert.Equal(t, ConstBuf("c"), c.Current())
	c.Advance(1)
	assert.Equal(t, ConstBuf("de"), c.Current())
	c.Advance(2)
	assert.Equal(t, ConstBuf("f"), c.Current())
	assert.False(t, c.Done())
	c.Advance(1)
	assert.True(t, c.Done())
}

func TestChainSkipsEmptySegments(t *testing.T) {
	c := NewChain(ConstBuf(""), ConstBuf(""), ConstBuf("x"))
	assert.Equal(t, ConstBuf("x"), c.Current())
	assert.False(t, c.Done())
}

func TestChainEmpty(t *testing.T) {
	c := NewChain[ConstBuf]()
	assert.True(t, c.Done())
	assert.True(t, c.Current().Empty())
}

func TestMutBufFill(t *testing.T) {
	dst := make(MutBuf, 3)
	n := dst.Fill([]byte("abcdef"))
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte("abc"), []byte(dst))
}
