package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Assets holds the default scenes, action plans and scripts built into the
// binaries.
//
//go:embed *.yaml scripts/*.tengo
var Assets embed.FS

// Dir is the on-disk directory searched before Assets. Files edited there
// win over the built-in copies, which is what the watchers reload from.
var Dir = "prefabs"

const scriptDir = "scripts"

// Load reads a scene or action plan by name.
func Load(name string) ([]byte, error) {
	return readAsset(assetPath(name, ""))
}

// LoadScript reads a tengo script. Bare names resolve under scripts/.
func LoadScript(name string) ([]byte, error) {
	return readAsset(assetPath(name, scriptDir))
}

func readAsset(rel string) ([]byte, error) {
	if rel == "" || !fs.ValidPath(rel) {
		return nil, &fs.PathError{Op: "open", Path: rel, Err: fs.ErrInvalid}
	}
	if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(rel))); err == nil {
		return data, nil
	}
	return Assets.ReadFile(rel)
}

// assetPath turns name into a slash path relative to Dir, stripping any
// leading prefabs/ and placing it under sub when given.
func assetPath(name, sub string) string {
	if name == "" {
		return ""
	}
	rel := strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
	if sub == "" {
		return rel
	}
	return path.Join(sub, strings.TrimPrefix(rel, sub+"/"))
}
