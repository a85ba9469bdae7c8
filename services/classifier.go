package services

import "strings"

// Category tags a gateway reply for illustrative media selection in the
// panel. Classification is decoupled from the clip choice itself.
type Category string

const (
	CategoryError       Category = "error"
	CategorySuccess     Category = "success"
	CategoryCodeRelated Category = "code_related"
	CategoryDefault     Category = "default"
)

// classifierRules is evaluated in order, first match wins, so a reply
// mentioning both "error" and "code" is tagged as an error.
var classifierRules = []struct {
	keywords []string
	category Category
}{
	{[]string{"error", "problem"}, CategoryError},
	{[]string{"success", "works"}, CategorySuccess},
	{[]string{"code", "query"}, CategoryCodeRelated},
}

var categoryClips = map[Category]string{
	CategoryError:       "clip-troubleshoot.mp4",
	CategorySuccess:     "clip-celebrate.mp4",
	CategoryCodeRelated: "clip-coding.mp4",
	CategoryDefault:     "clip-idle.mp4",
}

// Classify maps a reply's text to a response category using case-insensitive
// substring matching.
func Classify(replyText string) Category {
	lower := strings.ToLower(replyText)

	for _, rule := range classifierRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}

	return CategoryDefault
}

// ClipFor returns the illustrative media identifier for a category
func ClipFor(category Category) string {
	if clip, ok := categoryClips[category]; ok {
		return clip
	}
	return categoryClips[CategoryDefault]
}
