package schema

// Input is a basic chat input schema
type Input struct {
	Base
	// ChatMessage is the input message from the user
	ChatMessage string `json:"chat_message" jsonschema:"title=chat_message,description=The chat message send from the user."`
}

func NewInput(msg string) *Input {
	return &Input{
		ChatMessage: msg,
	}
}

func (i Input) String() string {
	return i.ChatMessage
}

// Output is a basic chat output schema
type Output struct {
	Base
	// ChatMessage is the markdown-enabled response message from the assistant
	ChatMessage string `json:"chat_message" jsonschema:"title=chat_message,description=The markdown-enabled reply from the assistant."`
}

func NewOutput(msg string) *Output {
	return &Output{
		ChatMessage: msg,
	}
}

// CreateOutput returns an Output value for seeding chat history
func CreateOutput(msg string) Output {
	return Output{
		ChatMessage: msg,
	}
}

func (o Output) String() string {
	return o.ChatMessage
}
