// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package analysis

import (
	"strings"

	"github.com/minhanle/photolens/internal/platform/apperr"
)

// # Error Bucketing
//
// Raw errors from the vision pipeline read like stack traces. The client
// surfaces one human sentence per failure category instead, and never the
// internal detail of a server-side fault.

// Bucketed user-facing messages, one per failure category.
const (
	MsgNetwork   = "Network connection failed. Check your connection and try again."
	MsgAuth      = "The analysis service rejected the configured credentials."
	MsgTimeout   = "Analysis timed out. Try a smaller photo or try again later."
	MsgParse     = "The analysis result could not be read. Please try again."
	MsgRateLimit = "Too many requests. Wait a moment before trying again."
	MsgServer    = "The analysis service is having trouble. Please try again later."
	MsgUnknown   = "Something went wrong. Please try again."
)

// matcher pairs lowercase substrings with the bucket they indicate.
// Order matters: the first hit wins, and the more specific signals
// (timeout, rate limit) sit above the generic ones.
var matchers = []struct {
	needles []string
	message string
}{
	{[]string{"timeout", "timed out", "deadline exceeded"}, MsgTimeout},
	{[]string{"429", "rate limit", "too many requests"}, MsgRateLimit},
	{[]string{"401", "403", "unauthorized", "forbidden", "api key", "credential"}, MsgAuth},
	{[]string{"network", "connection refused", "no such host", "fetch failed"}, MsgNetwork},
	{[]string{"json", "parse", "unmarshal", "unexpected token"}, MsgParse},
	{[]string{"500", "502", "503", "internal server"}, MsgServer},
}

/*
UserMessage maps any error from the analysis pipeline to a display-safe sentence.

Description: Validation errors keep their own message because they are already
user-correctable. Internal errors NEVER leak their cause text; everything else
is classified by substring into one of the fixed buckets.

Parameters:
  - err: error

Returns:
  - string: One of the Msg* constants, or the validation message itself
*/
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	if ae := apperr.As(err); ae != nil {
		switch ae.Code {
		case apperr.CodeValidation:
			return ae.Message
		case apperr.CodeInternal:
			return MsgServer
		}
	}

	lowered := strings.ToLower(err.Error())
	for _, matcher := range matchers {
		for _, needle := range matcher.needles {
			if strings.Contains(lowered, needle) {
				return matcher.message
			}
		}
	}

	return MsgUnknown
}
