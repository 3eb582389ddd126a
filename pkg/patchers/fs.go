package patchers

import (
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Reader reads whole files from the given filesystem.
func Reader(fs billy.Filesystem) ContentReader {
	return func(file string) ([]byte, error) {
		f, err := fs.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		return io.ReadAll(f)
	}
}

// Writer replaces the content of existing files in the given filesystem, keeping
// their permissions. It never creates files.
func Writer(fs billy.Filesystem) ContentWriter {
	return func(file string, content []byte) error {
		info, err := fs.Stat(file)
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return &os.PathError{Op: "write", Path: file, Err: os.ErrInvalid}
		}

		return util.WriteFile(fs, file, content, info.Mode().Perm())
	}
}
