package file

import (
	"fmt"
	"os"
	"strings"
)

// NotFoundError reports that none of the probed input candidates exist. The
// message names every path that was tried so the failure is actionable
// without re-running under a debugger.
type NotFoundError struct {
	Probed []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no input file found; probed: %s", strings.Join(e.Probed, ", "))
}

// Locate resolves the input path for a run. It probes the explicit path
// first (when non-empty), then each fallback candidate in order, and returns
// the first one that exists as a regular file. When nothing exists it returns
// a *NotFoundError listing every probed path.
//
// Locate never prompts and never consults ambient state such as the working
// directory beyond interpreting relative paths; callers pass every candidate
// explicitly.
func Locate(explicit string, fallbacks ...string) (string, error) {
	var probed []string

	candidates := make([]string, 0, 1+len(fallbacks))
	if explicit != "" {
		candidates = append(candidates, explicit)
	}
	candidates = append(candidates, fallbacks...)

	for _, c := range candidates {
		if c == "" {
			continue
		}
		probed = append(probed, c)
		info, err := os.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}
		return c, nil
	}

	return "", &NotFoundError{Probed: probed}
}
