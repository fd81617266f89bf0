package mfs

import (
	"log/slog"
	"strings"
)

// NodeInfo is the public, read-only view of a node returned by Stat and
// ListDir — the detail backing the shell's `nodeinfo` command (SPEC_FULL.md
// supplemented feature 1).
type NodeInfo struct {
	Name        string
	IsFolder    bool
	Size        uint32 // data-block count for files; always 0 for folders.
	Sector      uint32
	Parent      uint32
	TimeCreated PackedTime
	TimeChanged PackedTime
}

func infoFromNode(sector uint32, nv nodeView) NodeInfo {
	return NodeInfo{
		Name:        nv.Name(),
		IsFolder:    nv.IsFolder(),
		Size:        nv.Size(),
		Sector:      sector,
		Parent:      nv.Parent(),
		TimeCreated: PackedTime(nv.TimeCreated()),
		TimeChanged: PackedTime(nv.TimeChanged()),
	}
}

// findChild walks parent's sibling-linked child list looking for name,
// returning the matching child's sector or ResultNoFile.
func (fs *FS) findChild(parent uint32, name string) (uint32, nodeView, Result) {
	pv, res := fs.loadNode(parent)
	if res != ResultOK {
		return 0, nodeView{}, res
	}
	sector := pv.ChildHead()
	for sector != 0 {
		cv, res := fs.loadNode(sector)
		if res != ResultOK {
			return 0, nodeView{}, res
		}
		if cv.Name() == name {
			return sector, cv, ResultOK
		}
		sector = cv.ChildNext()
	}
	return 0, nodeView{}, ResultNoFile
}

// resolve walks path (absolute from root, or relative from fs.current) one
// segment at a time, failing with ResultNotAFolder if an intermediate
// segment names a file, ResultNoPath if an intermediate segment is missing,
// and ResultNoFile if the last segment is missing.
func (fs *FS) resolve(path string) (uint32, Result) {
	if err := fs.requireMounted(); err != nil {
		return 0, err.(Result)
	}
	if path == "" {
		return 0, ResultInvalidPath
	}
	start := fs.current
	if isAbsolute(path) {
		start = RootSector
	}
	return fs.resolveFrom(start, path)
}

// resolveFrom is resolve's workhorse: it walks path's segments starting at
// start, regardless of whether path itself carries a leading slash. This
// split exists because SplitPath strips the leading slash from a
// multi-segment absolute path's directory component (e.g. "/a/b" splits to
// dir "a", base "b"), so resolveParent must still know to start from root.
func (fs *FS) resolveFrom(start uint32, path string) (uint32, Result) {
	parts := segments(path)
	sector := start
	for i, name := range parts {
		nv, res := fs.loadNode(sector)
		if res != ResultOK {
			return 0, res
		}
		if !nv.IsFolder() {
			return 0, ResultNotAFolder
		}
		child, _, res := fs.findChild(sector, name)
		if res != ResultOK {
			if i == len(parts)-1 {
				return 0, ResultNoFile
			}
			return 0, ResultNoPath
		}
		sector = child
	}
	return sector, ResultOK
}

// resolveParent resolves path's directory component and returns the parent
// sector plus the basename to look up or create within it.
func (fs *FS) resolveParent(path string) (parent uint32, name string, res Result) {
	dir, base, err := SplitPath(path)
	if err != nil {
		return 0, "", err.(Result)
	}
	if base == "" {
		return 0, "", ResultInvalidPath
	}
	if dir == "" {
		return fs.current, base, ResultOK
	}
	if dir == "/" {
		return RootSector, base, ResultOK
	}
	start := fs.current
	if isAbsolute(path) {
		start = RootSector
	}
	parent, res = fs.resolveFrom(start, dir)
	return parent, base, res
}

func (fs *FS) create(path string, flags uint8) (uint32, Result) {
	if err := fs.requireMounted(); err != nil {
		return 0, err.(Result)
	}
	parent, name, res := fs.resolveParent(path)
	if res != ResultOK {
		return 0, res
	}
	pv, res := fs.loadNode(parent)
	if res != ResultOK {
		return 0, res
	}
	if !pv.IsFolder() {
		return 0, ResultNotAFolder
	}
	if _, _, res := fs.findChild(parent, name); res == ResultOK {
		return 0, ResultExists
	}

	sector, res := fs.allocSector()
	if res != ResultOK {
		return 0, res
	}
	nv := newNodeView()
	now := fs.clock.Now()
	nv.SetTimeCreated(uint64(now))
	nv.SetTimeChanged(uint64(now))
	nv.SetParent(parent)
	nv.SetChildHead(0)
	nv.SetChildNext(0)
	nv.SetSize(0)
	nv.SetFirstBlock(0)
	nv.SetFlags(flags)
	if err := nv.SetName(name); err != nil {
		fs.freeSector(sector)
		return 0, err.(Result)
	}
	if res := fs.storeNode(sector, nv); res != ResultOK {
		return 0, res
	}

	// Append to the tail of the parent's sibling list (§4.4).
	if pv.ChildHead() == 0 {
		pv.SetChildHead(sector)
	} else {
		tail := pv.ChildHead()
		for {
			tv, res := fs.loadNode(tail)
			if res != ResultOK {
				return 0, res
			}
			if tv.ChildNext() == 0 {
				tv.SetChildNext(sector)
				if res := fs.storeNode(tail, tv); res != ResultOK {
					return 0, res
				}
				break
			}
			tail = tv.ChildNext()
		}
	}
	if res := fs.storeNode(parent, pv); res != ResultOK {
		return 0, res
	}
	fs.trace("mfs:create", slog.String("name", name), slog.Uint64("sector", uint64(sector)))
	return sector, ResultOK
}

// CreateFile creates an empty file at path and returns its node sector.
func (fs *FS) CreateFile(path string) (uint32, error) {
	s, res := fs.create(path, flagFile)
	if res != ResultOK {
		return 0, res
	}
	return s, nil
}

// CreateFolder creates an empty folder at path and returns its node sector.
func (fs *FS) CreateFolder(path string) (uint32, error) {
	s, res := fs.create(path, flagFolder)
	if res != ResultOK {
		return 0, res
	}
	return s, nil
}

// unlink removes sector from its parent's sibling list, per §5's crash-safety
// ordering: unlink before free, so an interrupted delete never leaves a
// dangling node reachable from its parent.
func (fs *FS) unlink(sector uint32) (nodeView, Result) {
	nv, res := fs.loadNode(sector)
	if res != ResultOK {
		return nv, res
	}
	parent := nv.Parent()
	pv, res := fs.loadNode(parent)
	if res != ResultOK {
		return nv, res
	}
	if pv.ChildHead() == sector {
		pv.SetChildHead(nv.ChildNext())
	} else {
		prev := pv.ChildHead()
		for prev != 0 {
			prevV, res := fs.loadNode(prev)
			if res != ResultOK {
				return nv, res
			}
			if prevV.ChildNext() == sector {
				prevV.SetChildNext(nv.ChildNext())
				if res := fs.storeNode(prev, prevV); res != ResultOK {
					return nv, res
				}
				break
			}
			prev = prevV.ChildNext()
		}
	}
	if res := fs.storeNode(parent, pv); res != ResultOK {
		return nv, res
	}
	return nv, ResultOK
}

func (fs *FS) freeDataChain(first uint32) Result {
	sector := first
	for sector != 0 {
		dv, res := fs.loadBlock(sector)
		if res != ResultOK {
			return res
		}
		next := dv.Next()
		if res := fs.freeSector(sector); res != ResultOK {
			return res
		}
		sector = next
	}
	return ResultOK
}

// DeleteFile removes the file at path.
func (fs *FS) DeleteFile(path string) error {
	sector, res := fs.resolve(path)
	if res != ResultOK {
		return res
	}
	nv, res := fs.loadNode(sector)
	if res != ResultOK {
		return res
	}
	if !nv.IsFile() {
		return ResultIsAFolder
	}
	if _, res := fs.unlink(sector); res != ResultOK {
		return res
	}
	if res := fs.freeDataChain(nv.FirstBlock()); res != ResultOK {
		return res
	}
	return toErr(fs.freeSector(sector))
}

// DeleteFolder removes the folder at path. If recursive is false and the
// folder has children, it fails with ResultNotEmpty; the reference spec
// leaves recurse-vs-reject to the implementer (§9 open question 4) — Mango
// chooses to support both via the recursive flag, matching the shell's
// `deletefolder` vs. `deletefolder -r` split (see DESIGN.md).
func (fs *FS) DeleteFolder(path string, recursive bool) error {
	if path == "/" {
		return ResultIsRoot
	}
	sector, res := fs.resolve(path)
	if res != ResultOK {
		return res
	}
	nv, res := fs.loadNode(sector)
	if res != ResultOK {
		return res
	}
	if !nv.IsFolder() {
		return ResultNotAFolder
	}
	if nv.ChildHead() != 0 {
		if !recursive {
			return ResultNotEmpty
		}
		if err := fs.deleteChildren(sector); err != nil {
			return err
		}
	}
	if _, res := fs.unlink(sector); res != ResultOK {
		return res
	}
	return toErr(fs.freeSector(sector))
}

func (fs *FS) deleteChildren(parent uint32) error {
	pv, res := fs.loadNode(parent)
	if res != ResultOK {
		return res
	}
	// Collect first: unlink mutates the sibling list we'd otherwise be
	// walking.
	var children []uint32
	for s := pv.ChildHead(); s != 0; {
		cv, res := fs.loadNode(s)
		if res != ResultOK {
			return res
		}
		children = append(children, s)
		s = cv.ChildNext()
	}
	for _, s := range children {
		cv, res := fs.loadNode(s)
		if res != ResultOK {
			return res
		}
		if cv.IsFolder() {
			if cv.ChildHead() != 0 {
				if err := fs.deleteChildren(s); err != nil {
					return err
				}
			}
		} else {
			if res := fs.freeDataChain(cv.FirstBlock()); res != ResultOK {
				return res
			}
		}
		if _, res := fs.unlink(s); res != ResultOK {
			return res
		}
		if res := fs.freeSector(s); res != ResultOK {
			return res
		}
	}
	return nil
}

// Stat returns metadata for the node at path.
func (fs *FS) Stat(path string) (NodeInfo, error) {
	sector, res := fs.resolve(path)
	if res != ResultOK {
		return NodeInfo{}, res
	}
	nv, res := fs.loadNode(sector)
	if res != ResultOK {
		return NodeInfo{}, res
	}
	return infoFromNode(sector, nv), nil
}

// ListDir returns the children of the folder at path.
func (fs *FS) ListDir(path string) ([]NodeInfo, error) {
	sector, res := fs.resolve(path)
	if res != ResultOK {
		return nil, res
	}
	nv, res := fs.loadNode(sector)
	if res != ResultOK {
		return nil, res
	}
	if !nv.IsFolder() {
		return nil, ResultNotAFolder
	}
	var out []NodeInfo
	for s := nv.ChildHead(); s != 0; {
		cv, res := fs.loadNode(s)
		if res != ResultOK {
			return nil, res
		}
		out = append(out, infoFromNode(s, cv))
		s = cv.ChildNext()
	}
	return out, nil
}

// AbsPath reconstructs the absolute path of sector by walking parent links
// to the root, satisfying the law get_abspath(resolve(p)) == normalize(p).
func (fs *FS) AbsPath(sector uint32) (string, error) {
	if sector == RootSector {
		return "/", nil
	}
	if sector == 0 {
		return "", ResultInvalidObject
	}
	var parts []string
	for sector != RootSector {
		nv, res := fs.loadNode(sector)
		if res != ResultOK {
			return "", res
		}
		parts = append(parts, nv.Name())
		sector = nv.Parent()
		if sector == 0 {
			return "", ResultInvalidObject
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "/" + strings.Join(parts, "/"), nil
}

// Whereami returns the absolute path of the current directory.
func (fs *FS) Whereami() (string, error) { return fs.AbsPath(fs.current) }

// Goto changes the current directory to path.
func (fs *FS) Goto(path string) error {
	sector, res := fs.resolve(path)
	if res != ResultOK {
		return res
	}
	nv, res := fs.loadNode(sector)
	if res != ResultOK {
		return res
	}
	if !nv.IsFolder() {
		return ResultNotAFolder
	}
	fs.current = sector
	return nil
}

// Goup changes the current directory to its parent, a no-op at root.
func (fs *FS) Goup() error {
	if fs.current == RootSector {
		return nil
	}
	nv, res := fs.loadNode(fs.current)
	if res != ResultOK {
		return res
	}
	fs.current = nv.Parent()
	return nil
}

func toErr(res Result) error {
	if res == ResultOK {
		return nil
	}
	return res
}
