package writer

import (
	"fmt"
	"os"
)

// DefaultDir is created locally when neither the configured directory nor any
// fallback candidate exists.
const DefaultDir = "data"

// ResolveDir resolves the output directory: the explicit directory when it
// exists, otherwise the first existing fallback candidate, otherwise a local
// DefaultDir created on the spot. The explicit directory, when configured but
// absent, is created rather than silently substituted: an explicitly named
// destination wins over fallbacks.
func ResolveDir(explicit string, fallbacks []string) (string, error) {
	if explicit != "" {
		if err := os.MkdirAll(explicit, 0o755); err != nil {
			return "", fmt.Errorf("create output dir %s: %w", explicit, err)
		}
		return explicit, nil
	}
	for _, c := range fallbacks {
		if c == "" {
			continue
		}
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c, nil
		}
	}
	if err := os.MkdirAll(DefaultDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", DefaultDir, err)
	}
	return DefaultDir, nil
}
