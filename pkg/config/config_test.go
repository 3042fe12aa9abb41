package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequenceio/naf/pkg/alphabet"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "dna", cfg.SequenceType)
	assert.Equal(t, uint64(60), cfg.LineLength)
	assert.Equal(t, " ", cfg.Separator)
	assert.Equal(t, alphabet.DNA, cfg.SequenceTypeValue())
	assert.Equal(t, byte(' '), cfg.SeparatorByte())
}

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "naf.yaml")

	cfg := DefaultConfig()
	cfg.SequenceType = "protein"
	cfg.LineLength = 80
	cfg.Level = 3
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfig_LoadMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConfig_LoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "naf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("line_length: 120\n"), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(120), cfg.LineLength)
	assert.Equal(t, "dna", cfg.SequenceType)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SequenceType = "genome"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Separator = "::"
	assert.Error(t, cfg.Validate())
}
