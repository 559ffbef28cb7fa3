package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// PathEnv is the environment variable holding the default include search
// path, a list of directories separated by [os.PathListSeparator].
const PathEnv = "DSS_PATH"

// Prefix returns the base prefix string used to construct the path to the
// configuration directory.
//
// By default, Prefix is the base name of the executable file unless it matches
// one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with Name
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): Name, // default output from dlv
			regexp.MustCompile(`^\.+`):             "",   // remove leading dot(s)
			regexp.MustCompile(`\.test$`):          Name, // go test binaries
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			id = Name
		}

		return id
	},
)

// ConfigDir returns the configuration directory path.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserConfigDir, ".config"), Prefix())
	},
)

// CacheDir returns the cache directory path used for transient files such as
// the REPL history.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserCacheDir, ".cache"), Prefix())
	},
)

// userDir returns the directory reported by lookup, falling back to
// $HOME/<fallback> and finally the working directory.
func userDir(lookup func() (string, error), fallback string) string {
	dir, err := lookup()
	if err == nil {
		return dir
	}

	dir, err = os.UserHomeDir()
	if err == nil {
		return filepath.Join(dir, fallback)
	}

	dir, err = os.Getwd()
	if err != nil {
		return "."
	}

	return dir
}

// SearchPath returns the include search path: the given directories followed
// by the entries of [PathEnv]. Only existing directories are kept.
func SearchPath(dirs ...string) []string {
	sep := string(os.PathListSeparator)

	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv)),
		mung.WithDelim(sep),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	if list == "" {
		return nil
	}

	return strings.Split(list, sep)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
