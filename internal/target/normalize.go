package target

import (
	"net/url"
	"path/filepath"
)

// Stdin is the target name that selects standard input.
const Stdin = "-"

// Normalize processes a given check target and converts it into a standard
// form.
//
// Targets may be file paths or file URIs, both of which are converted to a
// path rooted at "/" that is resolved against the configured roots. Stdin is
// returned unchanged. All non-file URIs are left as-is with the expectation
// that they will be handled by some other implementation.
func Normalize(target string) string {
	if target == Stdin {
		return target
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return target
	}
	if u.Scheme == "file" {
		target = u.Path
	}
	if !filepath.IsAbs(target) {
		return filepath.Join("/", target)
	}
	return filepath.Clean(target)
}
