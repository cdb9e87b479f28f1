package spinner

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStart_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	stop := Start(&buf, "working")
	stop()
	stop()
	assert.Equal(t, "working\n", buf.String())
	assert.False(t, IsTerminal(&buf))
}

func TestAnimate(t *testing.T) {
	var buf syncBuffer
	stop := animate(&buf, "thinking", time.Millisecond)

	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), frames[0]+" thinking")
	}, time.Second, time.Millisecond)

	stop()
	stop()
	assert.True(t, strings.HasSuffix(buf.String(), "\r"+strings.Repeat(" ", len("thinking")+2)+"\r"))
}
