package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidatePackageName validates a package name for safety and correctness.
// It rejects names that could escape the registry path or a fixture key:
//   - No empty or whitespace-only names
//   - No control characters
//   - No path traversal sequences (.., //, backslash)
//   - Maximum length of 256 characters
//
// Scoped names such as "@scope/pkg" are accepted.
func ValidatePackageName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "//", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateURL validates a registry base URL.
// It must parse, use the http or https scheme, and name a host.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidConfig, err, "invalid URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidConfig, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidConfig, "URL must include a host")
	}

	return nil
}

// ValidateOutputFile validates the output file name.
func ValidateOutputFile(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidConfig, "output file name cannot be empty")
	}
	if strings.ContainsRune(name, '\x00') {
		return New(ErrCodeInvalidConfig, "output file name contains a null byte")
	}
	return nil
}
