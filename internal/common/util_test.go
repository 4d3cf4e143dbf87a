package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskEmail(t *testing.T) {
	require.Equal(t, "john.doe@***", MaskEmail("john.doe@example.com"))
	require.Equal(t, "nodomain@***", MaskEmail("nodomain"))
}

func TestIsValidEmail(t *testing.T) {
	require.True(t, IsValidEmail("user@example.com"))
	require.True(t, IsValidEmail("first.last+tag@sub.example.org"))

	require.False(t, IsValidEmail(""))
	require.False(t, IsValidEmail("not-an-email"))
	require.False(t, IsValidEmail("John <john@example.com>"))
	require.False(t, IsValidEmail(" user@example.com"))
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Anonymous", DisplayName(""))
	require.Equal(t, "Anonymous", DisplayName("  "))
	require.Equal(t, "Jane", DisplayName("Jane"))
}
