package assistant

import "slices"

// Transcript is the ordered, append-only record of a session's turns.
type Transcript struct {
	turns []Turn
}

func (t *Transcript) Append(turn Turn) {
	t.turns = append(t.turns, turn)
}

// All returns an ordered copy of the turns.
func (t *Transcript) All() []Turn {
	return slices.Clone(t.turns)
}

// LastAssistantReply scans backward for the most recent assistant turn that
// carried content.
func (t *Transcript) LastAssistantReply() (string, bool) {
	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].Role == RoleAssistant && t.turns[i].Content != "" {
			return t.turns[i].Content, true
		}
	}
	return "", false
}
