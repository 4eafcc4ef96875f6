package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ashvetsov/agenthub/internal/providers"
)

const newsSystemPrompt = `You are an expert news analyst and journalist with deep knowledge of current events, media literacy, and global affairs. You provide comprehensive news analysis, context, and insights.

ANALYSIS FRAMEWORK:
- WHO: Key players, stakeholders, and affected parties
- WHAT: Core facts and developments
- WHEN: Timeline and temporal context
- WHERE: Geographic scope and regional implications
- WHY: Underlying causes and motivations
- HOW: Mechanisms, processes, and methodologies
- SO WHAT: Significance, impact, and consequences

REPORTING STYLE:
- Present information objectively and factually
- Acknowledge uncertainty and ongoing developments
- Distinguish between confirmed facts and speculation
- Provide multiple viewpoints when appropriate
- Highlight potential long-term implications

CRITICAL THINKING GUIDANCE:
- Help users evaluate source credibility
- Identify potential bias in reporting
- Distinguish between news, opinion, and analysis
- Warn about misinformation and propaganda

Always encourage users to seek multiple sources and think critically about the information they consume.`

// NewNews builds the news analysis agent over the RSS headline provider.
func NewNews(p *providers.Set) Agent {
	augment := func(ctx context.Context, userMessage string, status *Status) string {
		status.Set("Fetching latest news...")
		headlines, err := p.News.Headlines(ctx)
		if err != nil {
			headlines = fallbackHeadlines()
		}

		status.Set("Analyzing news relevance...")
		relevance := analyzeTopicRelevance(userMessage, headlines)

		status.Set("Preparing news analysis...")
		return fmt.Sprintf(`CURRENT TOP HEADLINES:
%s

TOPIC ANALYSIS:
%s

MEDIA LITERACY REMINDER:
- Always verify information from multiple reliable sources
- Be aware of publication date and context
- Consider the source's potential bias and agenda
- Distinguish between breaking news and confirmed facts

User Question: %s
`, headlines, relevance, userMessage)
	}

	return NewAugmented("News Agent", "Ask about current news, analysis, or media literacy", newsSystemPrompt, augment)
}

func fallbackHeadlines() string {
	return fmt.Sprintf(`LIVE NEWS CURRENTLY UNAVAILABLE - Using fallback mode

NOTE: Real-time news data is temporarily unavailable. I can still provide:
- Analysis of general news topics and trends
- Context about ongoing global issues
- Media literacy guidance
- Background information on current events

Date: %s

Please share a specific news story or topic you'd like me to analyze, or ask about general news trends.`, time.Now().Format("2006-01-02"))
}

// analyzeTopicRelevance surfaces the headline lines that share a keyword with
// the user's question, up to three lines.
func analyzeTopicRelevance(userMessage, headlines string) string {
	keywords := strings.Fields(strings.ToLower(userMessage))

	var relevant []string
	for _, line := range strings.Split(headlines, "\n") {
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if len(kw) > 3 && strings.Contains(lower, kw) {
				relevant = append(relevant, line)
				break
			}
		}
		if len(relevant) == 3 {
			break
		}
	}

	if len(relevant) == 0 {
		return "Your question doesn't directly relate to current top headlines. I'll provide analysis based on general knowledge and context."
	}
	return "Your question appears related to these current stories:\n" + strings.Join(relevant, "\n")
}
