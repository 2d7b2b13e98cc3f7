package utils

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// FindProjectRoot walks upward from the working directory to the nearest
// directory containing go.mod. Installed binaries usually run outside any
// module tree; callers treat os.ErrNotExist as "no .env, use the real
// environment".
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// LoadEnv loads credentials and settings from a .env file. DEVFORGE_ENV_FILE
// overrides the default lookup, which is the .env at the project root.
func LoadEnv() error {
	if path := os.Getenv("DEVFORGE_ENV_FILE"); path != "" {
		return godotenv.Load(path)
	}
	root, err := FindProjectRoot()
	if err != nil {
		return err
	}
	return godotenv.Load(filepath.Join(root, ".env"))
}
