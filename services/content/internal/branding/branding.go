package branding

import "strings"

// trailing punctuation that may sit directly after a hashtag in prose
const punctuation = ".,!?:;"

// Normalize lowercases a tag and ensures a single leading '#'. Returns the
// empty string for blank input.
func Normalize(tag string) string {
	t := strings.TrimSpace(tag)
	t = strings.TrimPrefix(t, "#")
	t = strings.ToLower(t)
	if t == "" {
		return ""
	}
	return "#" + t
}

// Apply appends the organization's branded hashtags to body, normalized to
// #lowercase form. Tags already present anywhere in the body are skipped,
// in any case and with trailing punctuation tolerated, so applying the same
// tags twice leaves the body unchanged.
func Apply(body string, tags []string) string {
	present := make(map[string]bool)
	for _, word := range strings.Fields(body) {
		if strings.HasPrefix(word, "#") {
			present[strings.ToLower(strings.TrimRight(word, punctuation))] = true
		}
	}

	var missing []string
	for _, tag := range tags {
		normalized := Normalize(tag)
		if normalized == "" || normalized == "#" || present[normalized] {
			continue
		}
		present[normalized] = true
		missing = append(missing, normalized)
	}

	if len(missing) == 0 {
		return body
	}

	trimmed := strings.TrimRight(body, " \t\n")
	if trimmed == "" {
		return strings.Join(missing, " ")
	}
	return trimmed + "\n\n" + strings.Join(missing, " ")
}
