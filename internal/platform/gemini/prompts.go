package gemini

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/flashdeck/flashdeck-api/internal/generation"
)

// maxSourceTextChars bounds the text pasted into a prompt so a large
// document upload does not blow the model's context window.
const maxSourceTextChars = 15000

// promptData is the data rendered into the prompt templates. Exactly one of
// Topic and Text is set.
type promptData struct {
	Count int
	Topic string
	Text  string
}

const cardPromptText = `Create {{.Count}} educational flashcards {{if .Topic}}about the topic: "{{.Topic}}"{{else}}from the text below{{end}}.
Return ONLY a valid JSON array, no markdown fences:
[
  {
    "front": "Question",
    "back": "Answer",
    "image_query": "short english query (2-3 words)"
  }
]
{{if .Text}}
Text:
{{.Text}}
{{end}}`

const quizPromptText = `Create {{.Count}} multiple-choice quiz questions {{if .Topic}}about the topic: "{{.Topic}}"{{else}}from the text below{{end}}.
Return ONLY a valid JSON array, no markdown fences:
[
  {
    "question": "Question here?",
    "options": ["Option 1", "Option 2", "Option 3", "Option 4"],
    "correct_answers": [2],
    "explanation": "Why the answer is correct",
    "image_query": "short english query (2-3 words)"
  }
]

Requirements:
- each question has 2 to 6 options
- correct_answers holds zero-based indices into options
- use two options ["True", "False"] for true/false questions
- more than one correct index is allowed, e.g. [0, 2]
- questions should cover different aspects of the material
{{if .Text}}
Text:
{{.Text}}
{{end}}`

var (
	cardPromptTemplate = template.Must(template.New("cards").Parse(cardPromptText))
	quizPromptTemplate = template.Must(template.New("quiz").Parse(quizPromptText))
)

// renderPrompt fills a prompt template from the source. The source text is
// truncated to keep the prompt within the model's context window.
func renderPrompt(tmpl *template.Template, source generation.Source, count int) (string, error) {
	if source.IsEmpty() {
		return "", generation.ErrEmptySource
	}
	if count < 1 {
		count = generation.DefaultCount
	}

	text := strings.TrimSpace(source.Text)
	if len(text) > maxSourceTextChars {
		text = text[:maxSourceTextChars]
	}

	data := promptData{Count: count, Text: text}
	if text == "" {
		data.Topic = strings.TrimSpace(source.Topic)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
