package despertador

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

const DefaultToneDir = "alarm_tones"

var DefaultTones = []string{"tone1.mp3", "tone2.mp3", "tone3.mp3", "tone4.mp3", "tone5.mp3"}

// ToneLibrary is the fixed list of tones the user can pick from, all of them
// expected inside Dir.
type ToneLibrary struct {
	Dir   string
	Names []string
}

func NewToneLibrary(dir string, names ...string) *ToneLibrary {
	if dir == "" {
		dir = DefaultToneDir
	}
	if len(names) == 0 {
		names = DefaultTones
	}
	return &ToneLibrary{Dir: dir, Names: names}
}

// Resolve returns the path of the named tone.
func (l *ToneLibrary) Resolve(name string) (string, error) {
	if !slices.Contains(l.Names, name) {
		return "", Errorf(ErrInvalid, "unknown alarm tone %q", name)
	}
	path := filepath.Join(l.Dir, name)
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", Errorf(ErrNotFound, "%s not found in %s folder.", name, filepath.Base(l.Dir))
	case err != nil:
		return "", err
	case info.IsDir():
		return "", Errorf(ErrNotFound, "%s not found in %s folder.", name, filepath.Base(l.Dir))
	}
	return path, nil
}

type ToneInfo struct {
	Name    string
	Path    string
	Present bool
}

// Available reports every tone along with whether its file exists.
func (l *ToneLibrary) Available() []ToneInfo {
	tones := make([]ToneInfo, 0, len(l.Names))
	for _, name := range l.Names {
		path, err := l.Resolve(name)
		if err != nil {
			path = filepath.Join(l.Dir, name)
		}
		tones = append(tones, ToneInfo{Name: name, Path: path, Present: err == nil})
	}
	return tones
}

