// Package models contains data types and constants for the geminichat message pipeline.
package models

import "strings"

// Endpoints for the Generative Language API
const (
	EndpointBase = "https://generativelanguage.googleapis.com/v1beta/models"
	// DefaultEndpoint is the generateContent endpoint for the default model
	DefaultEndpoint = EndpointBase + "/gemini-2.0-flash:generateContent"
)

// Provider names accepted in configuration
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// FailedReplyText is the only text shown for a failed turn, whatever the cause
const FailedReplyText = "An unexpected error occurred."

// CodeFence marks a reply that is a fenced code block
const CodeFence = "```"

// Model represents a selectable completion model
type Model struct {
	Name  string // API identifier
	Label string // Display name
}

// Available models
var (
	Model20Flash = Model{
		Name:  "gemini-2.0-flash",
		Label: "Gemini 2.0 Flash",
	}

	Model25Flash = Model{
		Name:  "gemini-2.5-flash",
		Label: "Gemini 2.5 Flash",
	}

	Model25Pro = Model{
		Name:  "gemini-2.5-pro",
		Label: "Gemini 2.5 Pro",
	}

	// DefaultModel matches DefaultEndpoint
	DefaultModel = Model20Flash
)

// AllModels returns a list of all known models
func AllModels() []Model {
	return []Model{Model20Flash, Model25Flash, Model25Pro}
}

// ModelFromName returns a Model by its name.
// Unknown names are kept as-is so custom or newer models still work.
func ModelFromName(name string) Model {
	for _, m := range AllModels() {
		if m.Name == name {
			return m
		}
	}
	if name == "" {
		return DefaultModel
	}
	return Model{Name: name, Label: name}
}

// EndpointForModel returns the generateContent endpoint for a model name
func EndpointForModel(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultEndpoint
	}
	return EndpointBase + "/" + name + ":generateContent"
}
