package goquery_test

import "strings"

// collapse normalizes runs of whitespace the way rendered HTML would.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
