package search

import (
	"strconv"
	"strings"
)

// Query represents the structured parameters of a message search.
// It decouples the raw console input from the index requirements.
type Query struct {
	RawInput string // The original line typed by the user
	Terms    string // The actual text to match against message content
	ChatID   string // Restrict hits to one chat
	Sender   string // Restrict hits to one author
	Limit    int    // Maximum number of hits
}

// NewQuery parses a raw string to extract command-line style arguments.
// Example: deploy friday --chat chat_003 --from alice --limit 5
// --limit can lower defaultLimit, never raise it.
func NewQuery(input string, defaultLimit int) Query {
	query := Query{
		RawInput: input,
		Limit:    defaultLimit,
	}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			key := strings.TrimPrefix(part, "--")
			val := parts[i+1]

			switch key {
			case "chat":
				query.ChatID = val
			case "from":
				query.Sender = val
			case "limit":
				if n, err := strconv.Atoi(val); err == nil && n > 0 {
					query.Limit = n
					if defaultLimit > 0 {
						query.Limit = min(n, defaultLimit)
					}
				}
			}
			i++
			continue
		}

		textTerms = append(textTerms, strings.Trim(part, `"`))
	}

	query.Terms = strings.TrimSpace(strings.Join(textTerms, " "))
	return query
}

// IsEmpty reports whether the query has nothing to match on.
func (q Query) IsEmpty() bool {
	return q.Terms == "" && q.Sender == ""
}

// Hit is one matching message.
type Hit struct {
	ChatID    string
	ChatName  string
	Sender    string
	Content   string
	Timestamp string
	Score     float64
}
