package app

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCaptureKeepsRecentLines(t *testing.T) {
	c := newLogCapture(3, nil)
	for i := 1; i <= 5; i++ {
		_, err := fmt.Fprintf(c, "line %d\n", i)
		require.NoError(t, err)
	}
	_, _ = c.Write([]byte("a\r\n\r\nb"))

	assert.Equal(t, "line 5\na\nb", c.Text())
}

func TestLogCaptureFlushesToSink(t *testing.T) {
	got := make(chan string, 4)
	c := newLogCapture(10, func(s string) { got <- s })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.run(ctx, 10*time.Millisecond)

	_, _ = c.Write([]byte("first\n"))
	_, _ = c.Write([]byte("second\n"))

	select {
	case text := <-got:
		assert.True(t, strings.HasPrefix(text, "first"))
	case <-time.After(5 * time.Second):
		t.Fatal("sink was not called")
	}
}
