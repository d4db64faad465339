package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Context keys used for request-scoped observability values
const (
	RequestIDKey  = "request_id"
	UserAgentKey  = "user_agent"
	IPAddressKey  = "ip_address"
	EndpointKey   = "endpoint"
	TimeoutKey    = "timeout"
	CancelFuncKey = "cancel_func"
)

// Platform setting keys stored in the platform_settings table
const (
	// ClickCommissionSettingKey holds the flat amount credited to an
	// ambassador for every accepted (non-suspicious) click.
	ClickCommissionSettingKey = "click_commission_amount"
)

// Cache key fragments
const (
	ReferralLinkCachePrefix = "referral_link:"
	SettingCachePrefix      = "setting:"
)
