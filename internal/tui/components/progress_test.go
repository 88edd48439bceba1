package components

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCompletionClampsWidth(t *testing.T) {
	t.Parallel()

	require.Equal(t, 10, NewCompletion(3).bar.Width)
	require.Equal(t, 24, NewCompletion(24).bar.Width)
}

func TestCompletionView(t *testing.T) {
	t.Parallel()

	t.Run("renders counts", func(t *testing.T) {
		t.Parallel()
		view := NewCompletion(20).View(3, 4)
		require.Contains(t, view, "3/4 required")
	})

	t.Run("no required fields", func(t *testing.T) {
		t.Parallel()
		view := NewCompletion(20).View(0, 0)
		require.Contains(t, view, "0/0 required")
	})

	t.Run("over-complete input is clamped", func(t *testing.T) {
		t.Parallel()
		require.NotPanics(t, func() {
			_ = NewCompletion(20).View(9, 4)
		})
	})
}
