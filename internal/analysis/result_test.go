// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package analysis_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhanle/photolens/internal/analysis"
	"github.com/minhanle/photolens/internal/platform/apperr"
)

const completeDocument = `{
	"composition": {
		"type": "rule_of_thirds",
		"lines": [
			{"startX": 33.3, "startY": 0, "endX": 33.3, "endY": 100, "color": "#FFD700"}
		],
		"description": "Subject sits on the left third line."
	},
	"lighting": "Soft side light from the window.",
	"color": "Warm palette with a teal accent.",
	"subject": "Portrait, eye-level.",
	"perspective": "Slightly below eye level."
}`

/*
TestValidateDocument_MissingKeyNamesFirst verifies that validation reports
the first absent mandatory key in the fixed key order.
*/
func TestValidateDocument_MissingKeyNamesFirst(t *testing.T) {
	tests := []struct {
		name       string
		document   string
		wantFailed string
	}{
		{"missing_composition", `{"lighting":"a","color":"b","subject":"c","perspective":"d"}`, "composition"},
		{"missing_lighting", `{"composition":{},"color":"b","subject":"c","perspective":"d"}`, "lighting"},
		{"missing_perspective", `{"composition":{},"lighting":"a","color":"b","subject":"c"}`, "perspective"},
		// Both lighting and subject are absent; lighting comes first in key order.
		{"missing_several", `{"composition":{},"color":"b","perspective":"d"}`, "lighting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := analysis.ValidateDocument(tt.document)
			require.Error(t, err)
			assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
			assert.Contains(t, err.Error(), tt.wantFailed)
		})
	}
}

func TestValidateDocument_AcceptsComplete(t *testing.T) {
	assert.NoError(t, analysis.ValidateDocument(completeDocument))
}

func TestValidateDocument_RejectsNonObject(t *testing.T) {
	for _, raw := range []string{`[]`, `"text"`, `42`, `not json at all`} {
		err := analysis.ValidateDocument(raw)
		assert.True(t, apperr.IsCode(err, apperr.CodeValidation), "raw=%s", raw)
	}
}

/*
TestParseDocument_StripsMarkdownFraming checks extraction of the JSON span
from a fenced, prose-wrapped model response.
*/
func TestParseDocument_StripsMarkdownFraming(t *testing.T) {
	response := "Here is the analysis:\n```json\n" + completeDocument + "\n```\nHope it helps!"

	result, span, err := analysis.ParseDocument(response)
	require.NoError(t, err)
	assert.Equal(t, "rule_of_thirds", result.Composition.Type)
	require.Len(t, result.Composition.Lines, 1)
	assert.InDelta(t, 33.3, result.Composition.Lines[0].StartX, 0.001)
	assert.NoError(t, analysis.ValidateDocument(span))
}

func TestParseDocument_NoJSONPresent(t *testing.T) {
	_, _, err := analysis.ParseDocument("the model refused to answer")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

/*
TestUserMessage_Buckets spot-checks the substring classification for each
failure category and confirms internal detail never leaks.
*/
func TestUserMessage_Buckets(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", errors.New("context deadline exceeded"), analysis.MsgTimeout},
		{"rate_limit", errors.New("upstream returned 429 Too Many Requests"), analysis.MsgRateLimit},
		{"auth", errors.New("invalid api key"), analysis.MsgAuth},
		{"network", errors.New("dial tcp: connection refused"), analysis.MsgNetwork},
		{"parse", errors.New("unexpected token < in JSON"), analysis.MsgParse},
		{"server", errors.New("upstream returned 503"), analysis.MsgServer},
		{"unknown", errors.New("gremlins"), analysis.MsgUnknown},
		{"internal_never_leaks", apperr.Internal(errors.New("pq: relation missing")), analysis.MsgServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analysis.UserMessage(tt.err))
		})
	}
}
