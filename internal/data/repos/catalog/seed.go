package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	pkgerrors "github.com/yungbote/learnpath-backend/internal/pkg/errors"
)

// Seed is a catalog fixture file:
//
//	providers:
//	  - title: ELIXIR
//	    url: https://elixir-europe.org
//	resources:
//	  - key: stats-101
//	    title: Intro to Statistics
//	    url: https://example.org/stats
//	    provider: ELIXIR
//	    outcomes:
//	      - {noun: stats, verb: understand}
//	    prerequisites:
//	      - {noun: algebra, verb: apply}
type Seed struct {
	Providers []SeedProvider `yaml:"providers"`
	Resources []SeedResource `yaml:"resources"`
}

type SeedProvider struct {
	Title       string `yaml:"title"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

type SeedResource struct {
	Key              string            `yaml:"key"`
	Kind             string            `yaml:"kind"`
	Title            string            `yaml:"title"`
	URL              string            `yaml:"url"`
	ShortDescription string            `yaml:"short_description"`
	LongDescription  string            `yaml:"long_description"`
	DOI              string            `yaml:"doi"`
	Keywords         []string          `yaml:"keywords"`
	Provider         string            `yaml:"provider"`
	Outcomes         []types.Signature `yaml:"outcomes"`
	Prerequisites    []types.Signature `yaml:"prerequisites"`
}

// ParseSeed decodes a seed and checks keys are unique. Signatures are
// validated later by the save path so dedup and validation share one gate.
func ParseSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return &seed, nil
		}
		return nil, fmt.Errorf("decode seed: %w: %v", pkgerrors.ErrInvalidArgument, err)
	}
	keys := make(map[string]struct{}, len(seed.Resources))
	for i := range seed.Resources {
		res := &seed.Resources[i]
		res.Key = strings.TrimSpace(res.Key)
		if res.Key == "" {
			res.Key = strings.TrimSpace(res.Title)
		}
		if res.Key == "" {
			return nil, fmt.Errorf("seed resource %d: key or title required: %w", i, pkgerrors.ErrInvalidArgument)
		}
		if _, dup := keys[res.Key]; dup {
			return nil, fmt.Errorf("seed resource %q: duplicate key: %w", res.Key, pkgerrors.ErrInvalidArgument)
		}
		keys[res.Key] = struct{}{}
	}
	return &seed, nil
}

func LoadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()
	return ParseSeed(f)
}
