package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnsureDir creates the catalog directory if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Join(ErrLoadCatalog, err)
	}
	return nil
}

// WithDir loads <dir>/<locale>/<namespace>.yml for every locale directory
// under dir. A missing directory is not an error.
func WithDir(dir, namespace string) Option {
	return func(i *I18n) error {
		if namespace == "" {
			return ErrEmptyNamespace
		}
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return errors.Join(ErrLoadCatalog, err)
		}

		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			locale, err := Normalize(e.Name())
			if err != nil {
				continue
			}
			catalog, err := readCatalog(filepath.Join(dir, e.Name(), namespace+".yml"))
			if err != nil {
				return err
			}
			if catalog == nil {
				continue
			}
			if err := WithTranslations(locale, namespace, catalog)(i); err != nil {
				return err
			}
			i.loaded = append(i.loaded, locale)
		}
		return nil
	}
}

func readCatalog(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrLoadCatalog, err)
	}
	var catalog map[string]any
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadCatalog, path, err)
	}
	return catalog, nil
}
