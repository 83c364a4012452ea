package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// HashString returns a hex md5 digest, used for cache keys only.
func HashString(input string) string {
	hash := md5.Sum([]byte(input))
	return fmt.Sprintf("%x", hash)
}

// PromptKey hashes a prompt after case-folding and collapsing whitespace,
// so trivially reworded prompts share one cache entry.
func PromptKey(prompt string) string {
	return HashString(strings.Join(strings.Fields(strings.ToLower(prompt)), " "))
}
