// Package config loads and validates the server's settings: database
// connection, JWT secrets and lifetimes, log level, and the optional
// Gemini and Unsplash API keys that switch on draft generation and
// image lookup. Values come from environment variables or a config
// file and are exposed as one typed Config struct.
package config
