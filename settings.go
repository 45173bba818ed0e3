package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	settingsVersion = 2
	settingsFile    = "settings.json"
)

const (
	initialWindowW = 1024
	initialWindowH = 768
)

type settings struct {
	Version int

	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	VSync        bool

	ShowHUD bool
	ShowFPS bool

	Host string
}

var gsdef = settings{
	Version:      settingsVersion,
	WindowWidth:  initialWindowW,
	WindowHeight: initialWindowH,
	VSync:        true,
	ShowHUD:      true,
	ShowFPS:      true,
	Host:         "ws://localhost:8080/ws",
}

var gs = gsdef

// settingsLoaded reports whether settings came from disk.
var settingsLoaded bool

var settingsDirPath = "."

func settingsPath() string {
	return filepath.Join(settingsDirPath, settingsFile)
}

// loadSettings reads the settings file, falling back to defaults on any
// problem or version mismatch.
func loadSettings() bool {
	data, err := os.ReadFile(settingsPath())
	if err != nil {
		gs = gsdef
		settingsLoaded = false
		return false
	}
	tmp := gsdef
	if err := json.Unmarshal(data, &tmp); err != nil {
		logWarn("settings unreadable, using defaults: %v", err)
		gs = gsdef
		settingsLoaded = false
		return false
	}
	if tmp.Version != settingsVersion {
		gs = gsdef
		settingsLoaded = false
		return false
	}
	gs = tmp
	if gs.WindowWidth < 512 {
		gs.WindowWidth = gsdef.WindowWidth
	}
	if gs.WindowHeight < 384 {
		gs.WindowHeight = gsdef.WindowHeight
	}
	if gs.Host == "" {
		gs.Host = gsdef.Host
	}
	settingsLoaded = true
	return true
}

func saveSettings() {
	gs.Version = settingsVersion
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		logError("marshal settings: %v", err)
		return
	}
	if err := os.WriteFile(settingsPath(), data, 0644); err != nil {
		logError("write settings: %v", err)
	}
}
