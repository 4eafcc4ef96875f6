package agent

import (
	"context"
	"regexp"
	"strings"

	"github.com/ashvetsov/agenthub/internal/providers"
)

const quizSystemPrompt = `You are an expert educator and learning specialist who creates engaging, educational quizzes and flashcards. You understand various learning styles and pedagogical approaches to help users master any subject. You have access to current web information to create relevant and up-to-date quiz questions.

QUIZ FORMATS:
- Multiple choice with well-crafted distractors
- True/False with detailed explanations
- Fill-in-the-blank for key concepts
- Short answer and essay questions
- Matching and ordering exercises

DIFFICULTY ADAPTATION:
- Beginner: basic concepts and definitions
- Intermediate: application and analysis
- Advanced: synthesis and critical thinking

FEEDBACK:
- Immediate feedback for each answer
- Detailed explanations for correct answers
- Analysis of why wrong answers are incorrect
- Study tips and memory aids

WEB INFORMATION INTEGRATION:
- When web search results are provided, incorporate current and accurate information
- Create quiz questions based on recent developments or current facts
- Cite sources when using specific information from web searches

Always make learning engaging, accessible, and pedagogically sound. Encourage curiosity and deeper understanding beyond memorization.`

// currencyKeywords signal the user wants fresh information rather than
// evergreen material.
var currencyKeywords = []string{
	"recent", "latest", "current", "new", "today", "this year", "now",
	"contemporary", "modern", "up-to-date", "trending", "breaking",
	"fresh", "updated", "present day", "nowadays",
}

// searchableTopics are subjects that usually benefit from a web lookup.
var searchableTopics = []string{
	"news", "technology", "science", "politics", "economics",
	"sports", "entertainment", "health", "environment", "business",
	"social media", "ai", "artificial intelligence", "climate",
	"election", "war", "conflict",
}

var quizTopicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`quiz (?:me )?(?:on |about )(.*?)(?:\?|$)`),
	regexp.MustCompile(`create (?:a )?quiz (?:on |about )(.*?)(?:\?|$)`),
	regexp.MustCompile(`make (?:a )?quiz (?:on |about )(.*?)(?:\?|$)`),
	regexp.MustCompile(`questions? (?:on |about )(.*?)(?:\?|$)`),
}

// NewQuiz builds the quiz agent. Questions about current topics get a web
// search pass first; everything else goes to the model as-is.
func NewQuiz(p *providers.Set) Agent {
	augment := func(ctx context.Context, userMessage string, status *Status) string {
		if !shouldSearch(userMessage) {
			status.Set("Creating quiz questions...")
			return userMessage
		}

		status.Set("Searching for current information...")
		results, err := p.Search.Lookup(ctx, quizSearchQuery(userMessage))

		status.Set("Creating quiz questions...")
		if err != nil || results == "" {
			return userMessage
		}
		return userMessage + "\n\nCURRENT WEB INFORMATION:\n" + results +
			"\n\nPlease use this current information to create relevant and up-to-date quiz questions when appropriate.\n"
	}

	return NewAugmented("Quiz Agent", "Request a quiz or flashcard on any topic, or ask for learning strategies", quizSystemPrompt, augment)
}

func shouldSearch(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range currencyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, topic := range searchableTopics {
		if strings.Contains(lower, topic) {
			return true
		}
	}
	return strings.Contains(lower, "web") || strings.Contains(lower, "internet") || strings.Contains(lower, "search")
}

// quizSearchQuery strips the "quiz me on ..." framing so the search hits the
// actual topic.
func quizSearchQuery(message string) string {
	lower := strings.ToLower(message)
	if !strings.Contains(lower, "quiz") {
		return message
	}
	for _, pat := range quizTopicPatterns {
		if m := pat.FindStringSubmatch(lower); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return message
}
