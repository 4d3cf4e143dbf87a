package idutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	a := Generate()
	b := Generate()
	require.NotEqual(t, a, b)
	require.Less(t, a, b)

	require.WithinDuration(t, time.Now(), Time(b), time.Minute)
}
