package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mastersol/internal/domain"
	"mastersol/internal/observability"
)

// Texts shown in place of an insight when the text generation call fails
const (
	TradingInsightFallback = "Error: Could not retrieve AI insight. The AI subsystem may be offline. Please check the service logs for more details."
	TokenInsightFallback   = "Error: Could not retrieve analysis. The AI subsystem may be offline. Check the service logs for details."
)

// InsightService turns simulated state into prompts for the text generator
type InsightService struct {
	generator domain.TextGenerator
	model     string
	metrics   *observability.Metrics
}

// NewInsightService creates a new InsightService
func NewInsightService(generator domain.TextGenerator, model string, metrics *observability.Metrics) *InsightService {
	return &InsightService{
		generator: generator,
		model:     model,
		metrics:   metrics,
	}
}

// TradingInsight asks for a market read on the bot's live trades. It refuses
// with domain.ErrNoLiveTrades, without calling out, when there are none.
// Generation failures yield TradingInsightFallback and a nil error.
func (s *InsightService) TradingInsight(ctx context.Context, snap domain.BotSnapshot) (string, error) {
	if len(snap.LiveTrades) == 0 {
		return "", domain.ErrNoLiveTrades
	}
	return s.complete(ctx, domain.InsightTrading, TradingPrompt(snap), TradingInsightFallback), nil
}

// TokenInsight asks for a forensic breakdown of one token event.
// Generation failures yield TokenInsightFallback.
func (s *InsightService) TokenInsight(ctx context.Context, token domain.AnalyzedToken) string {
	return s.complete(ctx, domain.InsightToken, TokenPrompt(token), TokenInsightFallback)
}

func (s *InsightService) complete(ctx context.Context, kind domain.InsightKind, prompt, fallback string) string {
	text, err := s.generator.Complete(ctx, s.model, prompt)
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Str("model", s.model).Msg("insight request failed")
		s.metrics.ObserveInsight(string(kind), observability.OutcomeFailed)
		return fallback
	}
	s.metrics.ObserveInsight(string(kind), observability.OutcomeSuccess)
	return text
}

// TradingPrompt builds the copy trading analysis prompt
func TradingPrompt(snap domain.BotSnapshot) string {
	history := make([]string, 0, len(snap.LiveTrades))
	for _, t := range snap.LiveTrades {
		history = append(history, fmt.Sprintf("- %s %s @ price %s", t.Side, t.Pair, t.Price.StringFixed(4)))
	}

	var b strings.Builder
	b.WriteString("As an expert crypto trading analyst, review the following recent trade data from a copy trading bot on the Solana network.\n\n")
	fmt.Fprintf(&b, "Current Bot Status: %s\n", snap.Status)
	fmt.Fprintf(&b, "Session Realized P&L: %s SOL\n", snap.RealizedPnL.StringFixed(4))
	b.WriteString("Recent Trades:\n")
	b.WriteString(strings.Join(history, "\n"))
	b.WriteString("\n\nBased on this data, provide a concise market analysis and one predictive insight. ")
	b.WriteString("Identify any emerging trends (e.g., momentum on a specific token, market volatility). ")
	b.WriteString("Suggest one potential high-probability opportunity or a word of caution for the bot's next moves. ")
	b.WriteString("Keep the analysis brief and actionable.")
	return b.String()
}

// TokenPrompt builds the forensics analysis prompt for a token event
func TokenPrompt(t domain.AnalyzedToken) string {
	p := message.NewPrinter(language.English)

	var b strings.Builder
	b.WriteString("Analyze the following cryptocurrency event based on the provided data. ")
	b.WriteString("Identify and summarize the key factors, on-chain signals, and market sentiment patterns that likely contributed to this outcome. ")
	b.WriteString("Provide actionable insights or red flags that could help in predicting or identifying similar events in the future.\n\n")
	fmt.Fprintf(&b, "- Token Name: %s (%s)\n", t.Name, t.Symbol)
	fmt.Fprintf(&b, "- Event Type: %s\n", t.EventType.Label())
	fmt.Fprintf(&b, "- Event Date: %s\n", t.Date)
	b.WriteString(p.Sprintf("- Peak Market Cap: $%d\n", t.MarketCap))
	fmt.Fprintf(&b, "- Description: %s\n\n", t.Description)
	b.WriteString("Structure your analysis into \"Key Factors\" and \"Actionable Insights / Red Flags\".\n")
	b.WriteString("Your analysis should be concise and easy to understand for a crypto analyst.")
	return b.String()
}
