package main

import (
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/remeh/sizedwaitgroup"
)

// Optional textures, keyed by entity/object type: "player",
// "other_player", "bot", plus whatever Type strings the server sends
// for grid objects. Missing textures fall back to palette rectangles.

var textureDirPath = filepath.Join("data", "textures")

var (
	textures   = map[string]*ebiten.Image{}
	texturesMu sync.RWMutex
)

// loadTextures decodes every PNG in the texture directory in parallel.
// A missing directory is normal; the client draws rectangles.
func loadTextures() {
	entries, err := os.ReadDir(textureDirPath)
	if err != nil {
		logDebug("no texture dir: %v", err)
		return
	}
	wg := sizedwaitgroup.New(runtime.NumCPU())
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".png") {
			continue
		}
		wg.Add()
		go func(name string) {
			defer wg.Done()
			f, err := os.Open(filepath.Join(textureDirPath, name))
			if err != nil {
				logWarn("open texture %s: %v", name, err)
				return
			}
			defer f.Close()
			img, err := png.Decode(f)
			if err != nil {
				logWarn("decode texture %s: %v", name, err)
				return
			}
			key := strings.TrimSuffix(name, ".png")
			texturesMu.Lock()
			textures[key] = ebiten.NewImageFromImage(img)
			texturesMu.Unlock()
		}(name)
	}
	wg.Wait()
	texturesMu.RLock()
	n := len(textures)
	texturesMu.RUnlock()
	if n > 0 {
		logDebug("loaded %d textures", n)
	}
}

// textureFor returns the texture for a type key, nil when absent.
func textureFor(key string) *ebiten.Image {
	if key == "" {
		return nil
	}
	texturesMu.RLock()
	tex := textures[key]
	texturesMu.RUnlock()
	return tex
}
