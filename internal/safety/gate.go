// Package safety gates query text before it reaches the warehouse.
package safety

import (
	"fmt"
	"strings"
)

// QueryValidator decides whether a query may be forwarded to the warehouse.
// The denial message is safe to return to the caller. Implementations may be
// swapped for a SQL-aware parser without touching the gateway.
type QueryValidator interface {
	Check(query string) (bool, string)
}

// forbiddenKeywords are scanned in this order; the first match wins and names
// the denial, regardless of where each keyword occurs in the text.
var forbiddenKeywords = []string{"delete", "insert", "truncate", "drop", "create"}

// KeywordGate is a case-insensitive substring denylist, not a parser. A safe
// query that merely contains a forbidden word inside a string literal or
// comment is rejected too — an accepted false-positive trade-off.
type KeywordGate struct{}

// NewKeywordGate creates the denylist gate.
func NewKeywordGate() *KeywordGate {
	return &KeywordGate{}
}

// Check scans the query for forbidden statement keywords. Anything else,
// including CTEs and warehouse-specific function calls, passes.
func (g *KeywordGate) Check(query string) (bool, string) {
	lowered := strings.ToLower(query)
	for _, keyword := range forbiddenKeywords {
		if strings.Contains(lowered, keyword) {
			return false, fmt.Sprintf("%s operations are not allowed", strings.ToUpper(keyword))
		}
	}
	return true, "query is safe"
}

// EscapeQuotes neutralizes embedded double quotes so the query cannot break
// out when later interpolated into a wrapping statement. Callers must apply
// this before gating.
func EscapeQuotes(query string) string {
	return strings.ReplaceAll(query, `"`, `\"`)
}
