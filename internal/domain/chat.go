package domain

// Chat roles understood by OpenAI-compatible gateways.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation. Messages only live for the
// duration of a single completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
