package dbmigrate

import (
	"sort"

	"github.com/mandelsoft/vfs/pkg/vfs"
)

// DirExists checks if directory at path exists
func DirExists(fs vfs.FileSystem, dirpath string) bool {
	stats, err := fs.Stat(dirpath)
	if err != nil || !stats.IsDir() {
		return false
	}
	return true
}

// FileExists checks if file at path exists
func FileExists(fs vfs.FileSystem, fpath string) bool {
	stats, err := fs.Stat(fpath)
	if err != nil || stats.IsDir() {
		return false
	}
	return true
}

// EngineExists checks is specified database provider exists
func EngineExists(engine string) bool {
	_, ok := providers[engine]
	return ok
}

// Engines returns sorted list of supported database engines
func Engines() []string {
	var engines []string
	for engine := range providers {
		engines = append(engines, engine)
	}
	sort.Strings(engines)
	return engines
}
