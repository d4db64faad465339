package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

func TestClassifyClick(t *testing.T) {
	tests := []struct {
		name               string
		userAgent          string
		repeatedFromSameIP bool
		expectedReasons    []string
	}{
		{
			name:            "clean browser click",
			userAgent:       browserUA,
			expectedReasons: nil,
		},
		{
			name:            "curl is a bot signature",
			userAgent:       "curl/8.4.0",
			expectedReasons: []string{ReasonBotUserAgent, ReasonInvalidUserAgent},
		},
		{
			name:            "crawler anywhere in a long UA",
			userAgent:       "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			expectedReasons: []string{ReasonBotUserAgent},
		},
		{
			name:            "signature match is case-insensitive",
			userAgent:       "Python-Requests/2.31.0 custom integration client",
			expectedReasons: []string{ReasonBotUserAgent},
		},
		{
			name:            "empty user-agent is invalid",
			userAgent:       "",
			expectedReasons: []string{ReasonInvalidUserAgent},
		},
		{
			name:            "short user-agent is invalid",
			userAgent:       "Mozilla/5.0",
			expectedReasons: []string{ReasonInvalidUserAgent},
		},
		{
			name:               "repeated IP alone",
			userAgent:          browserUA,
			repeatedFromSameIP: true,
			expectedReasons:    []string{ReasonRepeatedClicks},
		},
		{
			name:               "reasons accumulate",
			userAgent:          "wget/1.21",
			repeatedFromSameIP: true,
			expectedReasons:    []string{ReasonRepeatedClicks, ReasonBotUserAgent, ReasonInvalidUserAgent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reasons := ClassifyClick(tt.userAgent, tt.repeatedFromSameIP)
			assert.Equal(t, tt.expectedReasons, reasons)
		})
	}
}

func TestClassifyClickBoundaryLength(t *testing.T) {
	// Exactly 20 characters is well-formed; 19 is not.
	ok := "ExampleAgent/1.0 abc"
	assert.Len(t, ok, 20)
	assert.Empty(t, ClassifyClick(ok, false))

	short := ok[:19]
	assert.Equal(t, []string{ReasonInvalidUserAgent}, ClassifyClick(short, false))
}
