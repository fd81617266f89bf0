package mfs

import "strings"

// SplitPath splits path into (dir, basename) per the reference's path-split
// semantics:
//
//	SplitPath("/a/b/c") == ("a/b", "c")
//	SplitPath("c")      == ("", "c")
//	SplitPath("/c")     == ("/", "c")
//
// A trailing slash is ignored before splitting. An empty path is an error.
func SplitPath(path string) (dir, base string, err error) {
	if path == "" {
		return "", "", ResultInvalidPath
	}
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		return "", "", ResultInvalidPath
	}
	idx := strings.LastIndexByte(path, '/')
	switch {
	case idx < 0:
		return "", path, nil
	case idx == 0:
		return "/", path[1:], nil
	case path[0] == '/':
		return path[1:idx], path[idx+1:], nil
	default:
		return path[:idx], path[idx+1:], nil
	}
}

// segments splits an absolute-or-relative path into its `/`-delimited path
// segments, skipping empty segments produced by repeated slashes and a
// single trailing slash.
func segments(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isAbsolute(path string) bool {
	return strings.HasPrefix(path, "/")
}
