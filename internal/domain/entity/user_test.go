package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
}

func TestUser_StartSessionResetsResults(t *testing.T) {
	u := NewUser(1, 10)
	u.AddResult(NewGradingResult("a.png", NewScore(1, 4)))

	key := &Metadata{}
	u.StartSession("s-1", key)
	require.Equal(t, "s-1", u.SessionID)
	require.Same(t, key, u.Key)
	require.Empty(t, u.Results)
}
