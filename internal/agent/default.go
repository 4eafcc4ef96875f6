package agent

import "github.com/ashvetsov/agenthub/internal/providers"

// Default builds the registry with every built-in agent.
func Default(p *providers.Set) *Registry {
	return NewRegistry(
		NewBasic(),
		NewWeather(p),
		NewNews(p),
		NewTodo(),
		NewStock(p),
		NewQuiz(p),
		NewWritingFeedback(),
		NewJoke(),
	)
}
