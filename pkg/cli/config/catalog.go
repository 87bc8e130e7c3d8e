package config

import (
	"errors"
	"os"

	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// LoadCatalog reads a TOML catalog with [[trial]], [[company]], [[news]] and [[indication]]
// tables. Every record needs an ID unique within its content type.
func LoadCatalog(path string) (*model.Catalog, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "catalog file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V(ConfigPathKey, path))
	}

	var catalog model.Catalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML catalog",
			goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if err := validateCatalog(&catalog); err != nil {
		return nil, goerr.Wrap(err, "catalog validation failed", goerr.V(ConfigPathKey, path))
	}

	return &catalog, nil
}

func validateCatalog(catalog *model.Catalog) error {
	for _, ct := range catalog.Types() {
		seen := make(map[string]bool)
		for i, c := range catalog.Contents(ct) {
			id := c.ContentID()
			if id == "" {
				return goerr.Wrap(ErrMissingID, "record has no id",
					goerr.V(ContentTypeKey, ct), goerr.V(IndexKey, i))
			}
			if seen[id] {
				return goerr.Wrap(ErrDuplicateID, "duplicate record id",
					goerr.V(ContentTypeKey, ct), goerr.V(ContentIDKey, id))
			}
			seen[id] = true
		}
	}
	return nil
}
