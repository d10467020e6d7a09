// Package generator holds what every quote generator backend shares: the
// instruction sent for a category, the structured-output schema and the
// decoding of the model's reply into a domain.Quote.
package generator

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jsamuelsen/zenquote/internal/domain"
)

// MIMEType is the structured-output MIME type requested from the model.
const MIMEType = "application/json"

// Prompt returns the instruction for category. General leaves the topic to
// the model.
func Prompt(category domain.Category) string {
	if category.IsGeneral() {
		return "Share one short, profound inspirational quote on a topic of your choosing. " +
			"Attribute it to the person who said or wrote it."
	}

	return fmt.Sprintf("Share one short inspirational quote about %s. "+
		"Attribute it to the person who said or wrote it.", strings.ToLower(category.String()))
}

// Schema returns the structured-output schema in the REST wire form:
// an object with required string fields text and author.
func Schema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "STRING",
				"description": "The quote itself, without surrounding quotation marks.",
			},
			"author": map[string]any{
				"type":        "STRING",
				"description": "The person the quote is attributed to.",
			},
		},
		"required":         []string{"text", "author"},
		"propertyOrdering": []string{"text", "author"},
	}
}

// payload is the object the model is asked to produce.
type payload struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// Decode parses the model's text reply into a fresh Quote. The reply may be
// wrapped in a markdown code fence. Anything that is not an object with
// non-blank text and author is an InvalidResponseError.
func Decode(service, raw string, now time.Time) (*domain.Quote, error) {
	body := StripCodeFence(raw)
	if body == "" {
		return nil, domain.NewInvalidResponseError(service, "empty reply", nil)
	}

	var p payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, domain.NewInvalidResponseError(service, "reply is not a quote object", err)
	}

	q, err := domain.NewQuote(p.Text, p.Author, now)
	if err != nil {
		return nil, domain.NewInvalidResponseError(service, "reply is missing a field", err)
	}

	return q, nil
}

// StripCodeFence removes a surrounding ```json ... ``` fence and whitespace.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}

	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
