package mfs

// MoveFile relinks the file at src under dst's parent folder with dst's
// basename, touching no data blocks — O(1) beyond the two sibling-list
// walks, since only the node's parent/name fields and its old and new
// parents' sibling lists change (SPEC_FULL.md, supplemented feature 3).
func (fs *FS) MoveFile(src, dst string) error {
	return fs.move(src, dst, false)
}

// MoveFolder relinks the folder at src under dst's parent folder. Children
// are untouched: they reference their parent by sector, which does not
// change when the folder itself moves.
func (fs *FS) MoveFolder(src, dst string) error {
	return fs.move(src, dst, true)
}

func (fs *FS) move(src, dst string, wantFolder bool) error {
	if src == "/" {
		return ResultIsRoot
	}
	sector, res := fs.resolve(src)
	if res != ResultOK {
		return res
	}
	nv, res := fs.loadNode(sector)
	if res != ResultOK {
		return res
	}
	if nv.IsFolder() != wantFolder {
		if wantFolder {
			return ResultNotAFolder
		}
		return ResultIsAFolder
	}

	newParent, newName, res := fs.resolveParent(dst)
	if res != ResultOK {
		return res
	}
	pv, res := fs.loadNode(newParent)
	if res != ResultOK {
		return res
	}
	if !pv.IsFolder() {
		return ResultNotAFolder
	}
	if _, _, res := fs.findChild(newParent, newName); res == ResultOK {
		return ResultExists
	}

	if _, res := fs.unlink(sector); res != ResultOK {
		return res
	}

	nv, res = fs.loadNode(sector)
	if res != ResultOK {
		return res
	}
	if err := nv.SetName(newName); err != nil {
		return err
	}
	nv.SetParent(newParent)
	nv.SetChildNext(0)
	nv.SetTimeChanged(uint64(fs.clock.Now()))
	if res := fs.storeNode(sector, nv); res != ResultOK {
		return res
	}

	pv, res = fs.loadNode(newParent)
	if res != ResultOK {
		return res
	}
	if pv.ChildHead() == 0 {
		pv.SetChildHead(sector)
	} else {
		tail := pv.ChildHead()
		for {
			tv, res := fs.loadNode(tail)
			if res != ResultOK {
				return res
			}
			if tv.ChildNext() == 0 {
				tv.SetChildNext(sector)
				if res := fs.storeNode(tail, tv); res != ResultOK {
					return res
				}
				break
			}
			tail = tv.ChildNext()
		}
	}
	return toErr(fs.storeNode(newParent, pv))
}

// CopyFile duplicates the file at src to dst, copying its data blocks.
func (fs *FS) CopyFile(src, dst string) error {
	data, err := fs.ReadFile(src)
	if err != nil {
		return err
	}
	if _, err := fs.CreateFile(dst); err != nil {
		return err
	}
	return fs.WriteFile(dst, data)
}

// CopyFolder recursively duplicates the folder subtree at src to dst.
func (fs *FS) CopyFolder(src, dst string) error {
	sector, res := fs.resolve(src)
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
	if _, err := fs.CreateFolder(dst); err != nil {
		return err
	}
	for s := nv.ChildHead(); s != 0; {
		cv, res := fs.loadNode(s)
		if res != ResultOK {
			return res
		}
		name := cv.Name()
		srcChild := joinPath(src, name)
		dstChild := joinPath(dst, name)
		if cv.IsFolder() {
			if err := fs.CopyFolder(srcChild, dstChild); err != nil {
				return err
			}
		} else {
			if err := fs.CopyFile(srcChild, dstChild); err != nil {
				return err
			}
		}
		s = cv.ChildNext()
	}
	return nil
}

func joinPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
