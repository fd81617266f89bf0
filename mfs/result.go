package mfs

// Result is the internal typed return code every low-level mfs operation
// produces, mirroring the teacher's fileResult: a small enum that also
// implements error so callers can return it directly or wrap it.
type Result int

const (
	ResultOK Result = iota
	ResultDiskErr
	ResultNotFormatted
	ResultFormatNotConfirmed
	ResultNoFile
	ResultNoPath
	ResultInvalidName
	ResultDenied         // disk full, or directory-full equivalent.
	ResultExists          // duplicate name on create.
	ResultNotAFolder      // parent is not a folder.
	ResultIsAFolder       // expected a file, found a folder.
	ResultNotEmpty        // folder has children and the caller asked for non-recursive delete.
	ResultInvalidObject   // stale handle: node sector went away or was reused.
	ResultInvalidPath
	ResultIsRoot // attempted to delete or move the root folder.
)

var resultStrings = map[Result]string{
	ResultOK:                 "ok",
	ResultDiskErr:            "disk I/O error",
	ResultNotFormatted:       "disk is not formatted",
	ResultFormatNotConfirmed: "format not confirmed",
	ResultNoFile:             "no such file",
	ResultNoPath:             "no such path",
	ResultInvalidName:        "invalid or too long name",
	ResultDenied:             "disk full or directory full",
	ResultExists:             "name already exists",
	ResultNotAFolder:         "not a folder",
	ResultIsAFolder:          "is a folder",
	ResultNotEmpty:           "folder is not empty",
	ResultInvalidObject:      "invalid or stale handle",
	ResultInvalidPath:        "invalid path",
	ResultIsRoot:             "operation not permitted on root",
}

func (r Result) String() string {
	if s, ok := resultStrings[r]; ok {
		return s
	}
	return "mfs: unknown result"
}

// Error implements error so every Result can be returned directly from an
// exported API without an extra wrapping allocation.
func (r Result) Error() string { return r.String() }

// OK reports whether r is ResultOK.
func (r Result) OK() bool { return r == ResultOK }
