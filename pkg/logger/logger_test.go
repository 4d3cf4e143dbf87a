package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
)

func newBufferLogger(level int) (*defaultLogger, *bytes.Buffer) {
	buf := bytes.NewBuffer(nil)
	l := NewLogger(level)
	l.inner = log.New(buf, "", 0)
	return l, buf
}

func TestLogger_Level(t *testing.T) {
	l, buf := newBufferLogger(WARNING)

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	require.Empty(t, buf.String())

	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)
	require.Equal(t, "[WARN] warn 3\n[ERROR] error 4\n", buf.String())
}

func TestLogger_With(t *testing.T) {
	l, buf := newBufferLogger(DEBUG)

	l.With("request_id", "abc").With("email", "a@b.c").Infof("hello")
	require.Equal(t, "[INFO] request_id=abc email=a@b.c hello\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, DEBUG, ParseLevel("debug"))
	require.Equal(t, WARNING, ParseLevel("WARN"))
	require.Equal(t, ERROR, ParseLevel(" error "))
	require.Equal(t, SILENCE, ParseLevel("silence"))
	require.Equal(t, INFO, ParseLevel("whatever"))
}
