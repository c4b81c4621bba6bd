package ai

import (
	"context"
	"fmt"
)

// Fields is what the model could infer from a free-form listing text.
// Anything it could not find is left empty.
type Fields struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Date     string `json:"date"`
}

// Interpreter turns unstructured text (for example a social post) into
// listing fields.
type Interpreter interface {
	ExtractFields(ctx context.Context, text string) (Fields, error)
}

// buildSystemPrompt creates the system instruction for the model
func buildSystemPrompt() string {
	return `You extract job listing details from short social media posts.
Return ONLY a raw JSON object with exactly these string keys: "title", "company", "location", "date".
Use an empty string for anything the text does not state. "date" must be ISO YYYY-MM-DD or empty.
Do not wrap the JSON in markdown.`
}

// buildUserPrompt wraps the post text
func buildUserPrompt(text string) string {
	return fmt.Sprintf("Post:\n%s", text)
}
