package ports

// FileSystem is the disk access used for scratch stills, clip outputs and
// reports.
type FileSystem interface {
	// WriteFile creates or replaces path, creating missing parents.
	WriteFile(path string, data []byte) error
	MkdirAll(path string) error
	Exists(path string) (bool, error)

	// Size fails unless path is a regular file.
	Size(path string) (int64, error)

	// ReadDir lists entry names in lexical order.
	ReadDir(path string) ([]string, error)

	// Rename moves a file, replacing newPath if it exists.
	Rename(oldPath, newPath string) error

	// Remove deletes a file or an empty directory.
	Remove(path string) error

	// RemoveAll deletes a tree. A missing path is not an error.
	RemoveAll(path string) error
}
