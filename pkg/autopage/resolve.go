package autopage

// Candidates returns the ordered template identifiers to try for a request
// path. The path is expected to already have its trailing slash trimmed and,
// for non-root requests, to retain its leading slash; the prefix is expected
// to carry no slashes on either end. Both of these are taken care of by the
// middleware itself.
//
// A non-empty path produces exactly two candidates, the direct file first and
// the directory index second. The root path produces only the index candidate.
// The function is pure: no I/O, no registry access, no failure mode.
func Candidates(path, prefix string) []string {
	if path == "" {
		return []string{prefix + "/index.html"}
	}
	return []string{
		prefix + path + ".html",
		prefix + path + "/index.html",
	}
}
