// Package agent defines the capability interface every assistant variant
// implements, and the registry of concrete agents.
//
// Agents hold no per-request state. The in-flight status label travels in a
// *Status created per pipeline invocation, so one agent instance is safe to
// share across concurrent requests.
package agent

import (
	"context"
)

// Agent is the fixed capability set of an assistant variant.
type Agent interface {
	// Name is the display name, also the agent_name recorded on sessions.
	Name() string

	// PromptLabel is the text shown when asking the user for input.
	PromptLabel() string

	// SystemPrompt returns the agent-defining instruction. Pure; callable
	// before any request state exists.
	SystemPrompt() string

	// PreparePrompt assembles the prompt text sent to the model. It may
	// perform external lookups and update status along the way. Provider
	// failures are substituted with fallback passages, never returned:
	// the result is always a usable prompt.
	PreparePrompt(ctx context.Context, userMessage string, status *Status) string
}

// AugmentFunc fetches external data and interpolates it around the user
// message, returning the full prompt.
type AugmentFunc func(ctx context.Context, userMessage string, status *Status) string

// promptAgent covers both observed shapes: static agents pass the user
// message through untouched, augmented agents run an AugmentFunc.
type promptAgent struct {
	name        string
	promptLabel string
	system      string
	augment     AugmentFunc
}

var _ Agent = (*promptAgent)(nil)

// NewStatic creates an agent whose prompt is the user message unchanged.
func NewStatic(name, promptLabel, systemPrompt string) Agent {
	return &promptAgent{name: name, promptLabel: promptLabel, system: systemPrompt}
}

// NewAugmented creates an agent that enriches the prompt with external data.
func NewAugmented(name, promptLabel, systemPrompt string, augment AugmentFunc) Agent {
	return &promptAgent{name: name, promptLabel: promptLabel, system: systemPrompt, augment: augment}
}

func (a *promptAgent) Name() string         { return a.name }
func (a *promptAgent) PromptLabel() string  { return a.promptLabel }
func (a *promptAgent) SystemPrompt() string { return a.system }

func (a *promptAgent) PreparePrompt(ctx context.Context, userMessage string, status *Status) string {
	if a.augment == nil {
		return userMessage
	}
	return a.augment(ctx, userMessage, status)
}
