package speech

import "strings"

// MatchChoice maps a recognized transcript onto a multiple-choice option
// set: case-insensitive, first exact match wins. No match returns
// ErrNoMatch so the caller can report a recoverable condition without
// touching session state.
func MatchChoice(transcript string, options []string) (string, error) {
	want := strings.ToLower(strings.TrimSpace(transcript))
	for _, opt := range options {
		if strings.ToLower(opt) == want {
			return opt, nil
		}
	}
	return "", ErrNoMatch
}

// MatchTokens tokenizes a transcript on whitespace and matches each token
// case-insensitively against the options not yet used, in transcript
// order, building a partial sequence. Unmatched tokens are dropped
// silently.
func MatchTokens(transcript string, options, used []string) []string {
	remaining := make(map[string]string, len(options))
	for _, opt := range options {
		remaining[strings.ToLower(opt)] = opt
	}
	for _, u := range used {
		delete(remaining, strings.ToLower(u))
	}

	var matched []string
	for _, token := range strings.Fields(transcript) {
		key := strings.ToLower(token)
		if opt, ok := remaining[key]; ok {
			matched = append(matched, opt)
			delete(remaining, key)
		}
	}
	return matched
}
