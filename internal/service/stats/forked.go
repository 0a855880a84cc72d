package stats

import "slices"

// forkTokens are the path tokens that switch fork inclusion on. Matching is case-sensitive.
var forkTokens = []string{"true", "forked", "t", "fork", "forks"}

// IncludeForks reports whether token asks for forked repositories to be counted.
// Any other value, including the empty string, excludes them.
func IncludeForks(token string) bool {
	return slices.Contains(forkTokens, token)
}
