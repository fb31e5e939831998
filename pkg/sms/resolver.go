package sms

import "github.com/wex-clearinghouse/core/pkg/models"

// ResolvePropertyReference resolves a positional reference ("option 2",
// "the first one") against the conversation's presented match IDs,
// falling back to the currently focused match when no ordinal is found
// (§4.3 step 3).
func ResolvePropertyReference(state *models.SMSConversationState, interp *MessageInterpretation) string {
	if interp.PositionalRef > 0 {
		idx := interp.PositionalRef - 1
		if idx >= 0 && idx < len(state.PresentedMatchIDs) {
			return state.PresentedMatchIDs[idx]
		}
	}
	return state.FocusedMatchID
}
