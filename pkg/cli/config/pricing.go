package config

import (
	"errors"
	"os"

	"github.com/competeai/competeai/pkg/service/completion"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// LoadPriceTable reads per-provider token prices from a TOML file:
//
//	[openai]
//	input_per_million = 0.15
//	output_per_million = 0.60
func LoadPriceTable(path string) (map[string]completion.Price, error) {
	// #nosec G304 - path is provided by CLI flag
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "price file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read price file", goerr.V(ConfigPathKey, path))
	}

	var table map[string]completion.Price
	if err := toml.Unmarshal(data, &table); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse price file",
			goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	for id, price := range table {
		if _, err := completion.LookupProvider(id); err != nil {
			return nil, goerr.Wrap(ErrUnknownProvider, "unknown provider in price file",
				goerr.V(ConfigPathKey, path), goerr.V(ProviderKey, id))
		}
		if price.InputPerMillion < 0 || price.OutputPerMillion < 0 {
			return nil, goerr.Wrap(ErrInvalidConfig, "price must not be negative",
				goerr.V(ConfigPathKey, path), goerr.V(ProviderKey, id))
		}
	}

	return table, nil
}
