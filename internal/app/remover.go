package app

import "os"

// OSRemover deletes files and folders recursively.
type OSRemover struct{}

func (OSRemover) Remove(path string) error {
	return os.RemoveAll(path)
}
