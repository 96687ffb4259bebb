package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SpriteResolver builds dashboard sprite URLs, falling back to the base
// sprite when a form or gender variant does not exist on disk.
type SpriteResolver struct {
	dir string
}

func NewSpriteResolver(dir string) *SpriteResolver {
	return &SpriteResolver{dir: dir}
}

// Path returns the URL path of the sprite for info.
func (r *SpriteResolver) Path(info PkmnInfo) string {
	variant := "normal"
	if info.Shiny {
		variant = "shiny"
	}
	base := "/sprites/pokemon/" + variant
	fallback := fmt.Sprintf("%s/%d.png", base, info.Species)

	var path string
	switch {
	case info.Form > 0:
		path = fmt.Sprintf("%s/%d-%d.png", base, info.Species, info.Form)
	case info.Gender == PkmnGenderFemale:
		path = fmt.Sprintf("%s/female/%d.png", base, info.Species)
	default:
		return fallback
	}

	if !r.exists(path) {
		return fallback
	}
	return path
}

func (r *SpriteResolver) exists(urlPath string) bool {
	if r.dir == "" {
		return false
	}
	rel := strings.TrimPrefix(urlPath, "/sprites/")
	info, err := os.Stat(filepath.Join(r.dir, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}
