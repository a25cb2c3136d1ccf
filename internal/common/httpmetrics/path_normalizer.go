package httpmetrics

const otherPath = "other"

var knownPaths = map[string]struct{}{
	"/api/auth/register": {},
	"/api/auth/login":    {},
	"/api/users/me":      {},
	"/health":            {},
	"/metrics":           {},
}

// NormalizePath maps a request path to a metric label. Anything outside the
// served routes shares one label so clients cannot grow the series count.
func NormalizePath(path string) string {
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return otherPath
}
