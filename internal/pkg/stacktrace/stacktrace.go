// Package stacktrace trims raw goroutine stacks down to frames that belong to
// this module, which keeps panic logs short enough to read.
package stacktrace

import "strings"

const marker = "/internal/"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" entries for every
// frame of the stack that lives under an internal/ directory.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines)/2)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, marker) {
			continue
		}

		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		loc, _, _ := strings.Cut(line[idx:], " ")
		file := line[:idx] + loc

		if at := strings.Index(file, marker); at != -1 {
			paths = append(paths, file[at+1:])
		}
	}

	return paths
}
