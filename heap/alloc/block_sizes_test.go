package alloc

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockSizeTable_Default(t *testing.T) {
	table, err := newBlockSizeTable(DefaultConfig)
	require.NoError(t, err)

	assert.Equal(t, 9, table.NumClasses())
	assert.Equal(t, "8,16,32,64,128,256,512,1024,2048", table.String())
}

func TestBlockSizeTable_Index(t *testing.T) {
	table, err := newBlockSizeTable(DefaultConfig)
	require.NoError(t, err)

	tests := []struct {
		size    uint64
		wantIdx int
		wantOK  bool
	}{
		{0, 0, true},
		{1, 0, true},
		{8, 0, true},
		{9, 1, true},
		{16, 1, true},
		{17, 2, true},
		{1000, 7, true},
		{1024, 7, true},
		{1025, 8, true},
		{2048, 8, true},
		{2049, 0, false},
		{1 << 20, 0, false},
	}
	for _, tt := range tests {
		idx, ok := table.index(tt.size)
		assert.Equal(t, tt.wantOK, ok, "size %d", tt.size)
		if tt.wantOK {
			assert.Equal(t, tt.wantIdx, idx, "size %d", tt.size)
		}
	}
}

func TestBlockSizeTable_Validation(t *testing.T) {
	bad := []BlockSizeConfig{
		{Name: "tiny", Min: 4, Max: 64},
		{Name: "odd min", Min: 12, Max: 64},
		{Name: "odd max", Min: 8, Max: 100},
		{Name: "inverted", Min: 256, Max: 16},
		{Name: "zero", Min: 0, Max: 0},
	}
	for _, cfg := range bad {
		_, err := newBlockSizeTable(cfg)
		assert.True(t, errors.Is(err, ErrBadBlockSizes), "%s: got %v", cfg.Name, err)
	}

	table, err := newBlockSizeTable(BlockSizeConfig{Name: "single", Min: 64, Max: 64})
	require.NoError(t, err)
	assert.Equal(t, "64", table.String())
}

func TestBlockSizeTable_Presets(t *testing.T) {
	for _, cfg := range []BlockSizeConfig{ConfigDefault, ConfigCompact, ConfigPage} {
		table, err := newBlockSizeTable(cfg)
		require.NoError(t, err, cfg.Name)
		assert.Equal(t, cfg.Min, table.sizes[0], cfg.Name)
		assert.Equal(t, cfg.Max, table.sizes[len(table.sizes)-1], cfg.Name)
	}
}
