package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStateValid(t *testing.T) {
	for state := range allStates {
		assert.True(t, state.Valid(), "state %s", state)
	}
	assert.False(t, State("").Valid())
	assert.False(t, State("ask_shoe_size").Valid())
}

func TestStateTerminal(t *testing.T) {
	assert.True(t, StateCompleted.Terminal())
	for state := range allStates {
		if state == StateCompleted {
			continue
		}
		assert.False(t, state.Terminal(), "state %s", state)
	}
}

func TestNewSession(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	sess := NewSession("u-1", "jane", now)

	assert.Equal(t, "u-1", sess.UserID)
	assert.Equal(t, "jane", sess.Username)
	assert.Equal(t, StateStart, sess.State)
	assert.Equal(t, now, sess.StartedAt)
	assert.Equal(t, now, sess.UpdatedAt)
	assert.Zero(t, sess.Collected)
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		input string
		want  Command
		ok    bool
	}{
		{"start", CmdStart, true},
		{"START", CmdStart, true},
		{"  Reset  ", CmdReset, true},
		{"sign contract", CmdSignContract, true},
		{"Sign Contract", CmdSignContract, true},
		{"contract signed", CmdContractSigned, true},
		{"complete", CmdComplete, true},
		{"start now", "", false},
		{"restart", "", false},
		{"sign  contract", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseCommand(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}
