package pkg

import (
	"fmt"
	"os"
)

// EnsureDir creates dir, and its parents, when it does not exist yet.
func EnsureDir(dir string) error {
	stat, err := os.Stat(dir)
	switch {
	case err == nil && stat.IsDir():
		return nil
	case err == nil:
		return fmt.Errorf("%s exists and is not a directory", dir)
	case !os.IsNotExist(err):
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
