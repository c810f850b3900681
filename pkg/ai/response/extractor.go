package response

import (
	"strings"

	"github.com/tidwall/gjson"
)

// MinTextLength rejects stub answers and echoed labels. Anything shorter
// than this is scaffolding, not a reply a user should see.
const MinTextLength = 15

// MaxOptions caps the follow-up suggestions shown to the user.
const MaxOptions = 3

// reservedTokens are classifier labels a misbehaving model sometimes echoes
// back instead of prose. They are never acceptable reply text.
var reservedTokens = map[string]struct{}{
	"normal_support":   {},
	"grounding":        {},
	"crisis_resources": {},
	"therapy_prep":     {},
	"supportive":       {},
	"unknown":          {},
}

var nestedTextPaths = []string{
	"response.message",
	"response.reflection",
	"response.response_text",
	"response.text",
}

var topLevelTextFields = []string{
	"message",
	"response_text",
	"reflection",
	"text",
	"content",
	"answer",
}

// ExtractText pulls usable reply text out of an arbitrarily shaped model
// reply. It checks the nested response object first, then well-known top
// level fields, then falls back to any string field. Returns "" when no
// candidate qualifies.
func ExtractText(raw gjson.Result) string {
	for _, path := range nestedTextPaths {
		if text, ok := acceptable(raw.Get(path)); ok {
			return text
		}
	}

	for _, field := range topLevelTextFields {
		if text, ok := acceptable(raw.Get(field)); ok {
			return text
		}
	}

	var found string
	raw.ForEach(func(_, value gjson.Result) bool {
		if text, ok := acceptable(value); ok {
			found = text
			return false
		}
		return true
	})
	return found
}

// ExtractOptions returns up to MaxOptions follow-up strings from an
// `options` array, preferring one nested under `response`. Non-array and
// missing values yield an empty slice.
func ExtractOptions(raw gjson.Result) []string {
	list := raw.Get("response.options")
	if !list.IsArray() {
		list = raw.Get("options")
	}
	if !list.IsArray() {
		return nil
	}

	var options []string
	for _, item := range list.Array() {
		if item.Type != gjson.String {
			continue
		}
		option := strings.TrimSpace(item.String())
		if option == "" {
			continue
		}
		options = append(options, option)
		if len(options) == MaxOptions {
			break
		}
	}
	return options
}

func acceptable(value gjson.Result) (string, bool) {
	if value.Type != gjson.String {
		return "", false
	}
	text := strings.TrimSpace(value.String())
	if len(text) < MinTextLength {
		return "", false
	}
	if _, reserved := reservedTokens[strings.ToLower(text)]; reserved {
		return "", false
	}
	return text, true
}
