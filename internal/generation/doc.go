// Package generation defines the interface for producing card and quiz
// drafts from source material with an LLM. It is the boundary between the
// application core and the external model provider: callers work with draft
// slices and never see provider types. The gemini platform package supplies
// the production implementation.
package generation
