package storage

import (
	"fmt"
	"strings"
	"unicode"
)

// SanitizeContainerName maps an agent id to a storage container name.
// Container names may only contain lowercase letters, digits, and hyphens,
// must start and end alphanumeric, and must be 3-63 characters long.
func SanitizeContainerName(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("container name input cannot be empty")
	}

	var b strings.Builder
	for _, r := range strings.ToLower(input) {
		switch {
		case unicode.IsSpace(r):
			// dropped
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	result := b.String()
	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	result = strings.Trim(result, "-")

	if len(result) < 3 {
		result = result + strings.Repeat("0", 3-len(result))
	}
	if len(result) > 63 {
		result = strings.TrimRight(result[:63], "-")
		if len(result) < 3 {
			result = result + strings.Repeat("0", 3-len(result))
		}
	}

	return result, nil
}
