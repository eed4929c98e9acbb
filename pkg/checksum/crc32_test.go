package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum32FoxAndDog(t *testing.T) {
	got := Sum32([]byte("The quick brown fox jumps over the lazy dog"))
	assert.Equal(t, uint32(0x414FA339), got)
}

func TestSum32Empty(t *testing.T) {
	assert.Equal(t, uint32(0), Sum32(nil))
}

func TestFeedAssociativity(t *testing.T) {
	data := []byte("streaming compression and archive-processing library")

	var whole CRC32
	whole.Feed(data)

	for split := 0; split <= len(data); split++ {
		var incremental CRC32
		incremental.Feed(data[:split])
		incremental.Feed(data[split:])
		assert.Equal(t, whole.Sum32(), incremental.Sum32(), "split at %d", split)
	}
}

func TestReset(t *testing.T) {
	var c CRC32
	c.Feed([]byte("anything"))
	c.Reset()
	assert.Equal(t, uint32(0), c.Sum32())
}
