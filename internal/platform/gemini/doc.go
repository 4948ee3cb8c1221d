// Package gemini implements the generation.Generator interface on Google's
// Gemini API. It owns prompt construction, the retry policy for transient
// API failures, and parsing of the model's JSON draft output; nothing above
// this package sees genai types.
package gemini
