package businessflow

import (
	"strings"
	"time"
)

// Click heuristic constants
const (
	// ClickVelocityWindow is the trailing window for the repeated-IP check,
	// inclusive at the lower bound.
	ClickVelocityWindow = 5 * time.Minute

	// minUserAgentLength is the shortest user-agent accepted as well-formed.
	minUserAgentLength = 20
)

// Classification reason strings surfaced in track-click responses and stored
// on the audit row.
const (
	ReasonRepeatedClicks   = "repeated clicks from same IP"
	ReasonBotUserAgent     = "suspicious user-agent (bot)"
	ReasonInvalidUserAgent = "invalid user-agent"
)

// botSignatures are matched case-insensitively anywhere in the user-agent.
var botSignatures = []string{
	"bot",
	"crawler",
	"spider",
	"scraper",
	"curl",
	"wget",
	"python",
	"java",
	"okhttp",
}

// ClassifyClick runs all fraud heuristics and accumulates their reasons.
// The heuristics are independent, not mutually exclusive: a click is
// suspicious when at least one reason is present. The velocity signal is
// computed by the caller (it needs the click log) and passed in.
func ClassifyClick(userAgent string, repeatedFromSameIP bool) []string {
	var reasons []string

	if repeatedFromSameIP {
		reasons = append(reasons, ReasonRepeatedClicks)
	}

	if ua := strings.ToLower(userAgent); ua != "" {
		for _, sig := range botSignatures {
			if strings.Contains(ua, sig) {
				reasons = append(reasons, ReasonBotUserAgent)
				break
			}
		}
	}

	if len(userAgent) < minUserAgentLength {
		reasons = append(reasons, ReasonInvalidUserAgent)
	}

	return reasons
}
