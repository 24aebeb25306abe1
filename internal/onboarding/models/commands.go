package models

import "strings"

// Command is one of the global keywords recognized from any state.
type Command string

const (
	CmdStart          Command = "start"
	CmdReset          Command = "reset"
	CmdSignContract   Command = "sign contract"
	CmdContractSigned Command = "contract signed"
	// CmdComplete survives from an earlier revision of the flow. It is always
	// rejected with an informational reply; keeping it recognized stops the
	// word from being swallowed as a step answer.
	CmdComplete Command = "complete"
)

// ParseCommand matches trimmed, lowercased input against the known commands.
// Matching is exact: "start now" is an answer, not a command.
func ParseCommand(text string) (Command, bool) {
	switch Command(strings.ToLower(strings.TrimSpace(text))) {
	case CmdStart:
		return CmdStart, true
	case CmdReset:
		return CmdReset, true
	case CmdSignContract:
		return CmdSignContract, true
	case CmdContractSigned:
		return CmdContractSigned, true
	case CmdComplete:
		return CmdComplete, true
	}
	return "", false
}
