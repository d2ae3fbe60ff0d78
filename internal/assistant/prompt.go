package assistant

import (
	"fmt"
	"strings"

	"github.com/linnemanlabs/locono/internal/complaint"
)

const (
	contextHeader = "Current Active Safety Alerts:"

	// NoAlertsLine is emitted in place of the alert list when nothing is pending.
	NoAlertsLine = "No active alerts reported."

	// Acknowledgment is the canned assistant turn that closes the primer.
	Acknowledgment = "Understood. I'm ready to help."
)

// BuildContext renders the alert summary injected into the system instruction.
func BuildContext(alerts []*complaint.Complaint) string {
	var b strings.Builder
	b.WriteString(contextHeader)
	b.WriteByte('\n')
	if len(alerts) == 0 {
		b.WriteString(NoAlertsLine)
		b.WriteByte('\n')
		return b.String()
	}
	for _, a := range alerts {
		fmt.Fprintf(&b, "- [%s] at %s: %s\n", a.Type, a.Location, a.Description)
	}
	return b.String()
}

// BuildSystemInstruction wraps the alert context with the assistant's persona and rules.
func BuildSystemInstruction(alertContext string) string {
	return `You are 'Locono', a helpful safety assistant.

` + alertContext + `
Instructions:
- If the user asks about alerts, tell them about the active alerts listed above.
- If the user asks general questions (e.g., "How to perform CPR?"), provide a clear, helpful answer.
- Keep answers concise.`
}

// buildConversation primes a stateless chat with the instruction and the
// canned acknowledgment, then appends the user's message.
func buildConversation(instruction, message string) []Message {
	return []Message{
		{Role: RoleUser, Text: instruction},
		{Role: RoleAssistant, Text: Acknowledgment},
		{Role: RoleUser, Text: message},
	}
}
