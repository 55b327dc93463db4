package config

import (
	"os"

	"luckystat/domain/lotto"
	"luckystat/internal/errors"

	"gopkg.in/yaml.v3"
)

type drawsFile struct {
	Draws []lotto.Draw `yaml:"draws"`
}

// LoadDraws reads published winning draws from a YAML file of the form
//
//	draws:
//	  - round: 1198
//	    date: "2025.11.15"
//	    numbers: [26, 30, 33, 38, 39, 41]
//	    bonus: 21
//
// An empty path returns the built-in draws.
func LoadDraws(path string) ([]lotto.Draw, error) {
	if path == "" {
		return append([]lotto.Draw(nil), lotto.DefaultDraws...), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read draws file %s", path)
	}
	return ParseDraws(raw)
}

// ParseDraws decodes and validates a YAML draws document
func ParseDraws(raw []byte) ([]lotto.Draw, error) {
	var doc drawsFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if len(doc.Draws) == 0 {
		return nil, errors.ConfigInvalid("draws file lists no draws")
	}

	seen := make(map[int]bool, len(doc.Draws))
	for _, d := range doc.Draws {
		if err := d.Validate(); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, err)
		}
		if seen[d.Round] {
			return nil, errors.ConfigInvalid("duplicate draw round")
		}
		seen[d.Round] = true
	}
	return doc.Draws, nil
}
