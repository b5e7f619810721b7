package wkfmla

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Profile is a YAML description of the context a formula is decoded in:
//
//	variant: wb1
//	position: {column: 2, row: 10, sheet: 0}
//	sheets: {0: Data, 1: "Q1 Totals"}
//	files: {1: budget.wk3}
//	cache_size: 128
type Profile struct {
	Variant   string         `yaml:"variant"`
	Charset   string         `yaml:"charset"`
	Position  Position       `yaml:"position"`
	Sheets    map[int]string `yaml:"sheets"`
	Files     map[int]string `yaml:"files"`
	CacheSize int            `yaml:"cache_size"`
}

// LoadProfile reads and parses a profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseProfile parses profile YAML and checks the variant and charset names.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if p.Variant == "" {
		p.Variant = VariantWK1.Name
	}
	if _, err := VariantByName(p.Variant); err != nil {
		return nil, err
	}
	if p.Charset != "" {
		if _, err := lookupCharset(p.Charset); err != nil {
			return nil, err
		}
	}
	if p.CacheSize < 0 {
		return nil, fmt.Errorf("cache_size must not be negative, got %d", p.CacheSize)
	}
	return &p, nil
}

// Options builds decode options from the profile.
func (p *Profile) Options(logger *zap.Logger) (Options, error) {
	v, err := VariantByName(p.Variant)
	if err != nil {
		return Options{}, err
	}
	if p.Charset != "" {
		v.Charset = p.Charset
	}
	var names NameResolver = StaticNames{Sheets: p.Sheets, Files: p.Files}
	if p.CacheSize > 0 {
		cached, err := NewCachedNames(names, p.CacheSize)
		if err != nil {
			return Options{}, err
		}
		names = cached
	}
	return Options{
		Variant:  v,
		Position: p.Position,
		Names:    names,
		Logger:   logger,
	}, nil
}
