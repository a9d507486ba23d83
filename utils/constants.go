package utils

import (
	"time"
)

// Request context keys
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserAgentKey contextKey = "user_agent"
	IPAddressKey contextKey = "ip_address"
	EndpointKey  contextKey = "endpoint"
	TimeoutKey   contextKey = "timeout"
	OperatorKey  contextKey = "operator"
)

// Default request timeout used when none is configured
const DefaultRequestTimeout = 15 * time.Second

// Currency of the built-in rate catalog
const CurrencyINR = "INR"
