package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/noteqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/noteqa/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.Turns())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *Bar)
		want  string
	}{
		{name: "ready", setup: func(*Bar) {}, want: "Ready"},
		{name: "turns", setup: func(b *Bar) { b.SetTurns(4) }, want: "4 turns in history"},
		{name: "thinking", setup: func(b *Bar) { b.SetState(StateThinking) }, want: "Thinking..."},
		{name: "error message", setup: func(b *Bar) {
			b.SetState(StateError)
			b.SetMessage("Last question failed")
		}, want: "Last question failed"},
		{name: "notice", setup: func(b *Bar) { b.SetMessage("cleared") }, want: "cleared"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(160)
			tt.setup(bar)

			view := bar.View()
			assert.Contains(t, view, tt.want)
			assert.Contains(t, view, "enter: send")
		})
	}
}

func TestBar_LeavingErrorClearsMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")

	bar.SetState(StateThinking)

	assert.Equal(t, "", bar.Message())
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetTurns(6)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.Turns())
}
