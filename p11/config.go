package p11

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// DefaultModuleDirs lists the directories searched for a library named
// by the module-name query attribute when no config entry matches.
var DefaultModuleDirs = []string{
	"/usr/lib64/pkcs11",                  // Fedora, RHEL, openSUSE
	"/usr/lib/pkcs11",                    // Arch Linux
	"/usr/lib/x86_64-linux-gnu/softhsm",  // Ubuntu/Debian x86_64
	"/usr/lib/softhsm",                   // Ubuntu/Debian
	"/usr/lib64/softhsm",                 // Fedora/RHEL SoftHSM2
	"/usr/local/lib/softhsm",             // macOS Homebrew (Intel), manual installs
	"/opt/homebrew/lib/softhsm",          // macOS Homebrew (ARM)
}

// ModuleConfig maps module names to library locations.
//
// Supply this to Locate(), or alternatively use LoadModuleConfig().
type ModuleConfig struct {
	// Modules maps a module name to the full library path.
	Modules map[string]string `json:"Modules" yaml:"modules"`

	// Dirs are searched for "lib<name>.so" and "<name>.so" when
	// Modules has no entry. DefaultModuleDirs is used when empty.
	Dirs []string `json:"Dirs" yaml:"dirs"`
}

// LoadModuleConfig loads module configuration from a JSON or YAML file.
func LoadModuleConfig(filename string) (*ModuleConfig, error) {
	cfr, err := os.Open(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer cfr.Close()

	cfg := new(ModuleConfig)
	if strings.HasSuffix(filename, ".json") {
		err = json.NewDecoder(cfr).Decode(cfg)
	} else {
		err = yaml.NewDecoder(cfr).Decode(cfg)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to decode file: %s", filename)
	}
	return cfg, nil
}

// Locate resolves a module name to a library path. A nil config
// searches DefaultModuleDirs only.
func (c *ModuleConfig) Locate(name string) (string, error) {
	if c != nil {
		if path, ok := c.Modules[name]; ok {
			return path, nil
		}
	}

	dirs := DefaultModuleDirs
	if c != nil && len(c.Dirs) > 0 {
		dirs = c.Dirs
	}
	for _, dir := range dirs {
		for _, base := range []string{"lib" + name + ".so", name + ".so"} {
			path := filepath.Join(dir, base)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", errors.Errorf("module not found: %s", name)
}
