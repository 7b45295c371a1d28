package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"

	"github.com/birdayz/textcodec/pkg/codec"
)

// ImportProperties builds a profile from a Java-style .properties file with the
// keys profile, encoding, errors, output and input. Without a profile key the
// file name (sans extension) names the profile.
func ImportProperties(path string) (*Profile, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}

	defaultName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	profile := &Profile{
		Name:   p.GetString("profile", defaultName),
		Output: p.GetString("output", ""),
		Input:  p.GetString("input", ""),
	}

	name, ok := p.Get("encoding")
	if !ok {
		return nil, fmt.Errorf("%s: missing required key \"encoding\"", path)
	}
	if profile.Encoding, err = codec.Lookup(name); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if profile.Errors, err = codec.ParseErrorMode(p.GetString("errors", "strict")); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return profile, nil
}
