package core

type Node interface {
	Path() string
	Name() string
}

type File struct {
	path string
	name string
	size int64
	dir  *Dir
}

// Dir is a directory in the tree. A virtual Dir groups several command line
// arguments and has no name of its own.
type Dir struct {
	path     string
	name     string
	children []Node
	parent   *Dir
	virtual  bool
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Name() string {
	return f.name
}

// Size is the file size observed while walking.
func (f *File) Size() int64 {
	return f.size
}

// Dir returns the directory the file was found in, or nil for a file given
// directly on the command line.
func (f *File) Dir() *Dir {
	return f.dir
}

func (d *Dir) Path() string {
	return d.path
}

func (d *Dir) Name() string {
	return d.name
}

func (d *Dir) Children() []Node {
	return d.children
}

func (d *Dir) Parent() *Dir {
	return d.parent
}

func (d *Dir) IsVirtual() bool {
	return d.virtual
}
