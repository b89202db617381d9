package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

func init() {
	// Terminal tools on macOS keep their files under ~/.config and ~/.local/state
	// unless the user has set the XDG variables explicitly.
	if runtime.GOOS != "darwin" {
		return
	}
	if os.Getenv("XDG_CONFIG_HOME") == "" {
		xdg.ConfigHome = filepath.Join(xdg.Home, ".config")
	}
	if os.Getenv("XDG_STATE_HOME") == "" {
		xdg.StateHome = filepath.Join(xdg.Home, ".local", "state")
	}
}
