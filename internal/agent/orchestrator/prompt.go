package orchestrator

import "fmt"

// systemPrompt builds the per-run system prompt: capabilities, the
// current date and time in the configured location, and the user's
// persistent memory when present.
func (o *Orchestrator) systemPrompt(chatID string) string {
	now := o.now().In(o.location)
	prompt := fmt.Sprintf(BaseSystemPrompt,
		now.Format("Monday, January 2, 2006"),
		now.Format("03:04 PM"),
	)
	if memory := o.users.Memory(chatID); memory != "" {
		prompt += fmt.Sprintf(memorySection, memory)
	}
	return prompt
}
