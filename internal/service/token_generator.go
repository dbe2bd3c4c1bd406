package service

import (
	"strings"
	"time"

	"mastersol/internal/domain"
)

const (
	minMarketCap = 50_000
	maxMarketCap = 2_050_000_000 // exclusive
)

var (
	tokenPrefixes = []string{"Cyber", "Neon", "Quantum", "Astro", "Glitch", "Chrono", "Synth", "Void"}
	tokenSuffixes = []string{"Coin", "Protocol", "Shard", "Net", "Fi", "DAO", "Link", "Token"}

	eventDescriptions = map[domain.EventType][]string{
		domain.EventRugPull: {
			"Newly detected contract with suspicious liquidity lock. High risk of rug pull.",
			"Deployer wallet rapidly selling off large token portions.",
			"Honeypot contract detected; sells are disabled for non-whitelisted wallets.",
			"Liquidity has been completely removed from the Raydium pool.",
		},
		domain.EventPump: {
			"Significant abnormal volume increase detected across multiple exchanges.",
			"Coordinated buying activity from a cluster of new wallets.",
			"High-profile social media influencer mentioned the token.",
			"Unusual trading patterns suggest a pump and dump scheme.",
		},
		domain.EventTier1: {
			"Token has met criteria for Tier-1 status based on market cap and volume thresholds.",
			"Sustained organic growth and strong community engagement metrics.",
			"Partnership announced with a major established protocol.",
			"Added to multiple high-profile watchlists and analytics platforms.",
		},
		domain.EventCEXListing: {
			"Strong rumors and on-chain movements suggest an imminent CEX listing.",
			"Large token transfers to a known CEX deposit wallet detected.",
			"API endpoints for the token have appeared on a major exchange.",
			"Official announcement of listing on a Tier-1 centralized exchange.",
		},
	}
)

// GenerateTokenEvent fabricates one forensics row from six draws of r, taken
// in this order: prefix, suffix, symbol length, event type, market cap, description.
func GenerateTokenEvent(r domain.RandomSource, id string, now time.Time) domain.AnalyzedToken {
	name := tokenPrefixes[pick(r, len(tokenPrefixes))] + tokenSuffixes[pick(r, len(tokenSuffixes))]

	symbol := strings.ToUpper(name[:3])
	if r.Float64() > 0.5 {
		symbol += strings.ToUpper(name[3:4])
	}

	eventType := domain.EventTypes[pick(r, len(domain.EventTypes))]
	marketCap := minMarketCap + int64(r.Float64()*float64(maxMarketCap-minMarketCap))
	pool := eventDescriptions[eventType]

	return domain.AnalyzedToken{
		ID:          id,
		Name:        name,
		Symbol:      symbol,
		EventType:   eventType,
		Date:        now.Format(time.DateOnly),
		MarketCap:   marketCap,
		Description: pool[pick(r, len(pool))],
	}
}

// pick draws a uniform index in [0, n)
func pick(r domain.RandomSource, n int) int {
	i := int(r.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// uniformDuration draws a delay uniformly from [min, max)
func uniformDuration(r domain.RandomSource, min, max time.Duration) time.Duration {
	return min + time.Duration(r.Float64()*float64(max-min))
}

// prependCapped puts item at the front of list and drops the oldest entries beyond limit
func prependCapped[T any](list []T, item T, limit int) []T {
	out := make([]T, 0, min(len(list)+1, limit))
	out = append(out, item)
	for _, v := range list {
		if len(out) == limit {
			break
		}
		out = append(out, v)
	}
	return out
}
