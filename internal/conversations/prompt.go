package conversations

import "fmt"

// BuildPrompt composes the single prompt sent to the model. The question and the
// document text are embedded verbatim; nothing is truncated or escaped.
func BuildPrompt(userInput, documentText string) string {
	return fmt.Sprintf("Based on the uploaded document, here is the response to: \"%s\"\n\nContext: %s", userInput, documentText)
}
