package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// FileEntry is one node of a folder listing. Path is relative to the browse
// root; Location is the absolute path a client hands back as a search root.
type FileEntry struct {
	Name     string       `json:"name"`
	Path     string       `json:"path"`
	Location string       `json:"location"`
	IsDir    bool         `json:"is_dir"`
	Size     int64        `json:"size,omitempty"`
	Children []*FileEntry `json:"children,omitempty"`
}

// ListOptions narrows a directory listing.
type ListOptions struct {
	DirsOnly   bool // folder pickers only need directories
	ShowHidden bool
}

// resolve joins relativePath onto basePath and rejects anything that escapes
// it, either lexically or through a symlink. The returned path is the lexical
// one so locations stay under the root the client browsed.
func resolve(basePath, relativePath string) (string, error) {
	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return "", err
	}
	absFull, err := filepath.Abs(filepath.Join(absBase, relativePath))
	if err != nil {
		return "", err
	}
	if !within(absBase, absFull) {
		return "", os.ErrPermission
	}

	realBase, err := filepath.EvalSymlinks(absBase)
	if err != nil {
		return "", err
	}
	realFull, err := filepath.EvalSymlinks(absFull)
	if err != nil {
		return "", err
	}
	if !within(realBase, realFull) {
		return "", os.ErrPermission
	}
	return absFull, nil
}

func within(base, path string) bool {
	return path == base || strings.HasPrefix(path, base+string(filepath.Separator))
}

func ListDirectory(basePath, relativePath string, opts ListOptions) ([]*FileEntry, error) {
	fullPath, err := resolve(basePath, relativePath)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, err
	}

	result := []*FileEntry{}
	for _, entry := range entries {
		if !opts.ShowHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		// Symlinked directories count as directories for picking purposes.
		location := filepath.Join(fullPath, entry.Name())
		info, err := os.Stat(location)
		if err != nil {
			continue
		}
		if opts.DirsOnly && !info.IsDir() {
			continue
		}

		fe := &FileEntry{
			Name:     entry.Name(),
			Path:     filepath.ToSlash(filepath.Join(relativePath, entry.Name())),
			Location: location,
			IsDir:    info.IsDir(),
		}
		if !info.IsDir() {
			fe.Size = info.Size()
		}
		result = append(result, fe)
	}
	return result, nil
}

// BuildTree lists relativePath and descends depth more levels. Subdirectories
// that cannot be listed are left without children.
func BuildTree(basePath, relativePath string, depth int, opts ListOptions) (*FileEntry, error) {
	fullPath, err := resolve(basePath, relativePath)
	if err != nil {
		return nil, err
	}

	entries, err := ListDirectory(basePath, relativePath, opts)
	if err != nil {
		return nil, err
	}

	if depth > 0 {
		for _, entry := range entries {
			if !entry.IsDir {
				continue
			}
			subtree, err := BuildTree(basePath, entry.Path, depth-1, opts)
			if err != nil {
				continue
			}
			entry.Children = subtree.Children
		}
	}

	name := filepath.Base(relativePath)
	if relativePath == "" || relativePath == "." {
		name = "root"
	}
	return &FileEntry{
		Name:     name,
		Path:     filepath.ToSlash(relativePath),
		Location: fullPath,
		IsDir:    true,
		Children: entries,
	}, nil
}
