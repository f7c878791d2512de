// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package paths resolves the on-disk location of washcore's resources,
// honouring XDG_CONFIG_HOME the way spec.md's configuration file section
// requires: $XDG_CONFIG_HOME/washdc/wash.cfg, falling back to
// $HOME/.config/washdc/wash.cfg.
package paths

import (
	"os"
	"path/filepath"
)

const appDirName = "washdc"

// ConfigPath joins path elements onto the resolved washdc config directory.
func ConfigPath(elements ...string) (string, error) {
	base, err := configDir()
	if err != nil {
		return "", err
	}
	all := append([]string{base, appDirName}, elements...)
	return filepath.Join(all...), nil
}

func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

// EnsureConfigDir creates the washdc config directory (and any elements'
// parent directories) if it does not already exist, and returns the full
// path requested.
func EnsureConfigDir(elements ...string) (string, error) {
	pth, err := ConfigPath(elements...)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(pth), 0700); err != nil {
		return "", err
	}
	return pth, nil
}

// DefaultConfigFile returns the default wash.cfg location.
func DefaultConfigFile() (string, error) {
	return ConfigPath("wash.cfg")
}
