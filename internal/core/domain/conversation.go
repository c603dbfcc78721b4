package domain

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation.
type Turn struct {
	Role    Role
	Content string
}

// DefaultHistoryLimit is the number of turns kept (three exchanges).
const DefaultHistoryLimit = 6

// DefaultSystemPrompt is the instruction that opens every generation request
// unless the user customised it.
const DefaultSystemPrompt = `You are a helpful assistant that answers questions using the user's personal notes.
Answer from the context provided with each question, and use the note metadata when it is relevant.
Pay particular attention to creation and modification dates, tags and other metadata when the question is about when something happened.
If the answer cannot be found in the context, say so clearly.
Whenever possible, cite the source files of the information using the paths given in square brackets.
Keep your answers concise and relevant.`
