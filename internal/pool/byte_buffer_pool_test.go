package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, bb.Len(), "new buffer should have zero length")
	assert.Equal(t, 1024, bb.Cap(), "new buffer should have specified capacity")
}

func TestByteBuffer_BytesAndReset(t *testing.T) {
	bb := NewByteBuffer(DescriptorBufferDefaultSize)
	bb.B = append(bb.B, []byte("hello")...)

	data := bb.Bytes()
	assert.Equal(t, []byte("hello"), data)
	assert.True(t, &bb.B[0] == &data[0], "Bytes() should return the same underlying slice")

	originalCap := bb.Cap()
	bb.Reset()
	assert.Equal(t, 0, bb.Len(), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, bb.Cap(), "Reset should preserve capacity")
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(DescriptorBufferDefaultSize)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = bb.Write([]byte(" world"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	assert.Equal(t, []byte("hello world"), bb.B)
	assert.Equal(t, 11, bb.Len())
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(DescriptorBufferDefaultSize)
	bb.B = append(bb.B, []byte("test data")...)

	var buf bytes.Buffer
	n, err := bb.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "test data", buf.String())

	// Error from the destination writer propagates.
	_, err = bb.WriteTo(&errorWriter{err: io.ErrShortWrite})
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity is a no-op", func(t *testing.T) {
		bb := NewByteBuffer(DescriptorBufferDefaultSize)
		bb.Grow(100)
		assert.Equal(t, DescriptorBufferDefaultSize, bb.Cap())
	})

	t.Run("grows past a full buffer", func(t *testing.T) {
		bb := NewByteBuffer(DescriptorBufferDefaultSize)
		bb.B = append(bb.B, make([]byte, DescriptorBufferDefaultSize)...)

		bb.Grow(1024)
		assert.GreaterOrEqual(t, bb.Cap(), DescriptorBufferDefaultSize+1024)
		assert.Equal(t, DescriptorBufferDefaultSize, bb.Len(), "length should not change")
	})

	t.Run("huge request is honored", func(t *testing.T) {
		bb := NewByteBuffer(DescriptorBufferDefaultSize)
		bb.B = append(bb.B, make([]byte, DescriptorBufferDefaultSize)...)

		huge := DescriptorBufferDefaultSize * 10
		bb.Grow(huge)
		assert.GreaterOrEqual(t, bb.Cap(), DescriptorBufferDefaultSize+huge)
	})

	t.Run("preserves data across reallocation", func(t *testing.T) {
		bb := NewByteBuffer(16)
		testData := []byte("must survive growth")
		bb.B = append(bb.B, testData...)

		bb.Grow(DescriptorBufferDefaultSize * 2)
		assert.Equal(t, testData, bb.B)
	})
}

func TestDescriptorBufferPool(t *testing.T) {
	bb := GetDescriptorBuffer()
	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len(), "pooled buffer should be empty")
	assert.GreaterOrEqual(t, bb.Cap(), DescriptorBufferDefaultSize)

	bb.B = append(bb.B, []byte("payload")...)
	PutDescriptorBuffer(bb)
	assert.Equal(t, 0, bb.Len(), "Put should reset the buffer")

	// Nil put should not panic.
	assert.NotPanics(t, func() {
		PutDescriptorBuffer(nil)
	})
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	t.Run("oversized buffers are discarded", func(t *testing.T) {
		p := NewByteBufferPool(1024, 4096)

		bb := p.Get()
		bb.Grow(10000)
		assert.Greater(t, bb.Cap(), 4096)

		p.Put(bb)

		bb2 := p.Get()
		assert.LessOrEqual(t, bb2.Cap(), 4096*2, "should not reuse buffer larger than threshold")
	})

	t.Run("zero threshold keeps everything", func(t *testing.T) {
		p := NewByteBufferPool(1024, 0)

		bb := p.Get()
		bb.Grow(1024 * 1024)
		p.Put(bb)

		require.NotNil(t, p.Get())
	})
}

func TestDescriptorBufferPool_Concurrent(t *testing.T) {
	const goroutines = 32
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				bb := GetDescriptorBuffer()
				bb.B = append(bb.B, []byte("data")...)
				assert.Equal(t, 4, bb.Len())
				PutDescriptorBuffer(bb)
			}
		}()
	}

	wg.Wait()
}

func BenchmarkDescriptorBuffer_GetPut(b *testing.B) {
	data := make([]byte, 512)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		bb := GetDescriptorBuffer()
		bb.B = append(bb.B, data...)
		PutDescriptorBuffer(bb)
	}
}

func BenchmarkDescriptorBuffer_NoPool(b *testing.B) {
	data := make([]byte, 512)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		bb := NewByteBuffer(DescriptorBufferDefaultSize)
		bb.B = append(bb.B, data...)
		_ = bb
	}
}

type errorWriter struct {
	err error
}

func (ew *errorWriter) Write(p []byte) (n int, err error) {
	return 0, ew.err
}
