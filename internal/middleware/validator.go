package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var domainPattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)

// ValidateTargetDomain checks the target is a bare hostname, not a URL or
// something shell-shaped.
func ValidateTargetDomain(domain string) error {
	d := strings.ToLower(strings.TrimSpace(domain))
	if d == "" {
		return fmt.Errorf("target domain cannot be empty")
	}
	if strings.Contains(d, "://") || strings.Contains(d, "/") {
		return fmt.Errorf("target domain must be a bare hostname, not a URL")
	}
	if !domainPattern.MatchString(d) {
		return fmt.Errorf("invalid target domain: %s", domain)
	}
	return nil
}

// ValidateClientID validates conversation client IDs
func ValidateClientID(id string) error {
	if id == "" {
		return nil // Optional field
	}
	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, id)
	if !matched {
		return fmt.Errorf("invalid client ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidatePageSize clamps pagination page size
func ValidatePageSize(size int) int {
	if size <= 0 {
		return 20 // default
	}
	if size > 100 {
		return 100 // max
	}
	return size
}
