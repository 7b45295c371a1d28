package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/birdayz/textcodec/pkg/codec"
)

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")
	err := os.WriteFile(path, []byte(`current-profile: legacy
profiles:
  - name: legacy
    encoding: ISO-8859-1
    errors: replace
    output: escaped
  - name: windows
    encoding: UTF_16
    input: base64
`), 0644)
	require.NoError(t, err)

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "legacy", cfg.CurrentProfile)
	require.Equal(t, path, cfg.Path())
	require.Len(t, cfg.Profiles, 2)

	p := cfg.Profiles[0]
	require.Equal(t, "legacy", p.Name)
	require.Equal(t, codec.Latin1, p.Encoding)
	require.Equal(t, codec.Replace, p.Errors)
	require.Equal(t, "escaped", p.Output)

	p = cfg.Profiles[1]
	require.Equal(t, codec.UTF16, p.Encoding)
	require.Equal(t, codec.Strict, p.Errors)
	require.Equal(t, "base64", p.Input)
}

func TestReadConfig_UnknownEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte("profiles:\n  - name: x\n    encoding: ebcdic\n"), 0644))

	_, err := ReadConfig(path)
	require.Error(t, err)
	require.True(t, errors.Is(err, codec.ErrUnsupportedEncoding))
}

func TestReadConfig_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	require.Empty(t, cfg.Profiles)
}

func TestReadConfig_ExplicitPathMustExist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent")
	_, err := ReadConfig(path)
	require.Error(t, err)
}

func TestWriteAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.AddProfile(&Profile{Name: "wide", Encoding: codec.UTF32BE, Errors: codec.Replace, Output: "hex"}))
	require.NoError(t, cfg.SetCurrentProfile("wide"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "encoding: utf-32-be")
	require.Contains(t, string(data), "errors: replace")

	back, err := ReadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "wide", back.CurrentProfile)
	require.Equal(t, codec.UTF32BE, back.ActiveProfile().Encoding)
}

func TestHasProfile(t *testing.T) {
	cfg := Config{
		Profiles: []*Profile{
			{Name: "a"},
			{Name: "b"},
		},
	}
	require.True(t, cfg.HasProfile("a"))
	require.True(t, cfg.HasProfile("b"))
	require.False(t, cfg.HasProfile("c"))
}

func TestAddRemoveProfile(t *testing.T) {
	cfg := Config{CurrentProfile: "a", Profiles: []*Profile{{Name: "a"}}}

	require.Error(t, cfg.AddProfile(&Profile{Name: "a"}))
	require.Error(t, cfg.AddProfile(&Profile{}))
	require.NoError(t, cfg.AddProfile(&Profile{Name: "b"}))
	require.Len(t, cfg.Profiles, 2)

	require.NoError(t, cfg.RemoveProfile("a"))
	require.Equal(t, "", cfg.CurrentProfile)
	require.Error(t, cfg.RemoveProfile("a"))
	require.Len(t, cfg.Profiles, 1)
}

func TestActiveProfile(t *testing.T) {
	cfg := Config{
		CurrentProfile: "prod",
		Profiles: []*Profile{
			{Name: "dev", Encoding: codec.UTF8},
			{Name: "prod", Encoding: codec.Latin1},
		},
	}

	p := cfg.ActiveProfile()
	require.NotNil(t, p)
	require.Equal(t, "prod", p.Name)

	// Modifying the copy leaves the config alone.
	p.Encoding = codec.ASCII
	require.Equal(t, codec.Latin1, cfg.Profiles[1].Encoding)

	// ProfileOverride takes precedence.
	cfg.ProfileOverride = "dev"
	p = cfg.ActiveProfile()
	require.NotNil(t, p)
	require.Equal(t, "dev", p.Name)
}

func TestActiveProfile_NotFound(t *testing.T) {
	cfg := Config{
		CurrentProfile: "missing",
		Profiles:       []*Profile{{Name: "other"}},
	}
	require.Nil(t, cfg.ActiveProfile())
}

func TestSetCurrentProfile_Unknown(t *testing.T) {
	cfg := Config{CurrentProfile: "a", Profiles: []*Profile{{Name: "a"}}}
	require.Error(t, cfg.SetCurrentProfile("b"))
	require.Equal(t, "a", cfg.CurrentProfile)
}

func TestImportProperties(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mainframe.properties")
	require.NoError(t, os.WriteFile(path, []byte(`# exported settings
encoding = cp437
errors = replace
output = escaped
`), 0644))

	p, err := ImportProperties(path)
	require.NoError(t, err)
	require.Equal(t, "mainframe", p.Name)
	require.Equal(t, codec.CP437, p.Encoding)
	require.Equal(t, codec.Replace, p.Errors)
	require.Equal(t, "escaped", p.Output)

	named := filepath.Join(dir, "other.properties")
	require.NoError(t, os.WriteFile(named, []byte("profile=legacy\nencoding=latin1\n"), 0644))
	p, err = ImportProperties(named)
	require.NoError(t, err)
	require.Equal(t, "legacy", p.Name)
	require.Equal(t, codec.Latin1, p.Encoding)
	require.Equal(t, codec.Strict, p.Errors)
}

func TestImportProperties_Invalid(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.properties")
	require.NoError(t, os.WriteFile(missing, []byte("errors=strict\n"), 0644))
	_, err := ImportProperties(missing)
	require.Error(t, err)

	unknown := filepath.Join(dir, "unknown.properties")
	require.NoError(t, os.WriteFile(unknown, []byte("encoding=klingon\n"), 0644))
	_, err = ImportProperties(unknown)
	require.True(t, errors.Is(err, codec.ErrUnsupportedEncoding))

	_, err = ImportProperties(filepath.Join(dir, "nope.properties"))
	require.Error(t, err)
}
