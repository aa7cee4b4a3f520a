// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

/*
Package analysis defines the structured analysis document and its validation.

The vision service consumes one image and returns a free-form text response
that should contain a JSON document with five mandatory sections. This package
owns the shape of that document and the gate every record passes before it is
persisted or rendered. It never talks to the vision service itself; transport
is a collaborator concern outside this subsystem.
*/
package analysis

import (
	"encoding/json"
	"strings"

	"github.com/minhanle/photolens/internal/platform/apperr"
)

// # Document Shape

// MandatoryKeys are the five top-level sections a document must carry, in the
// order validation reports them. A document missing any one is rejected
// before storage or display.
var MandatoryKeys = []string{"composition", "lighting", "color", "subject", "perspective"}

// Line is one composition guide line, with endpoints expressed as 0-100
// percentages of the image dimensions so the overlay scales with any render size.
type Line struct {
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
	Color  string  `json:"color"`
}

// Composition describes the detected compositional structure of the photo.
type Composition struct {
	Type        string `json:"type"`
	Lines       []Line `json:"lines"`
	Description string `json:"description"`
}

// Result is the typed view of a complete analysis document.
type Result struct {
	Composition Composition `json:"composition"`
	Lighting    string      `json:"lighting"`
	Color       string      `json:"color"`
	Subject     string      `json:"subject"`
	Perspective string      `json:"perspective"`
}

// # Validation

/*
ValidateDocument checks that raw is an object-shaped JSON value containing
all five mandatory top-level keys.

Description: The check names the FIRST missing key it finds, in the fixed
[MandatoryKeys] order, so the caller gets a deterministic, actionable message.
It runs on the raw serialized form rather than [Result] because a zero-valued
struct field cannot be told apart from an absent key after unmarshalling.

Parameters:
  - raw: string (serialized document as received or as stored)

Returns:
  - error: apperr.ValidationError naming the defect, or nil
*/
func ValidateDocument(raw string) error {
	var document map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &document); err != nil {
		return apperr.ValidationError("Analysis result is not a JSON object")
	}

	for _, key := range MandatoryKeys {
		if _, present := document[key]; !present {
			return apperr.ValidationError("Analysis result is missing required field: " + key)
		}
	}

	return nil
}

/*
ParseDocument extracts and validates the analysis document from a raw vision
service response.

Description: Vision models habitually wrap their JSON in markdown fences or
framing prose. The parser takes the span from the first '{' to the last '}',
decodes it, and applies [ValidateDocument] to the extracted span.

Parameters:
  - response: string (raw model output)

Returns:
  - *Result: Typed document
  - string: The exact JSON span that passed validation, suitable for storage
  - error: apperr.ValidationError when no valid document can be extracted
*/
func ParseDocument(response string) (*Result, string, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return nil, "", apperr.ValidationError("Analysis response contains no JSON document")
	}

	span := response[start : end+1]
	if err := ValidateDocument(span); err != nil {
		return nil, "", err
	}

	result := &Result{}
	if err := json.Unmarshal([]byte(span), result); err != nil {
		return nil, "", apperr.ValidationError("Analysis document has malformed field types")
	}

	return result, span, nil
}
