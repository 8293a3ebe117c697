package recipe_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/latticemap/pkg/marshal"
	"github.com/iamNilotpal/latticemap/pkg/options"
	"github.com/iamNilotpal/latticemap/pkg/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SaveLoad_RoundTrips(t *testing.T) {
	t.Parallel()

	o := options.NewDefaultOptions(true)
	options.WithEntries(12345)(o)
	options.WithValueAlignment(8)(o)
	options.WithReplicated(true)(o)
	options.WithChecksums(options.ChecksumYes)(o)
	options.WithKeyMarshaller(marshal.Uint64Marshaller())(o)
	options.WithValueMarshaller(marshal.BytesMarshaller())(o)
	options.WithAverageValueSize(48)(o)

	cfg, err := options.Resolve(o)
	require.NoError(t, err)

	r := recipe.FromOptions(cfg)

	path := filepath.Join(t.TempDir(), "layout.toml")
	require.NoError(t, recipe.Save(path, r))

	loaded, err := recipe.Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(12345), loaded.Entries)
	assert.Equal(t, int64(8), loaded.ValueAlignment)
	assert.True(t, loaded.Replicated)
	assert.Equal(t, "yes", loaded.Checksums)
	assert.Equal(t, float64(48), loaded.AverageValueSize)
}

func Test_OptionFuncs_OmitsZeroValueFields(t *testing.T) {
	t.Parallel()

	r := &recipe.Recipe{Entries: 500}
	fns := r.OptionFuncs()

	o := options.NewDefaultOptions(true)
	for _, fn := range fns {
		fn(o)
	}

	assert.Equal(t, int64(500), o.Entries)
	// ActualSegments left unset (0) in the recipe should not force a 0
	// override that later fails Resolve's positive-range check.
	assert.Equal(t, int64(0), o.ActualSegments)
}

func Test_OptionFuncs_AppliesConstantKeySizeWhenSet(t *testing.T) {
	t.Parallel()

	r := &recipe.Recipe{Entries: 100, ConstantKeySize: 8}
	fns := r.OptionFuncs()

	o := options.NewDefaultOptions(true)
	options.WithKeyMarshaller(marshal.NewRuntimeConstantSize(8))(o)
	for _, fn := range fns {
		fn(o)
	}
	options.WithValueMarshaller(marshal.Uint64Marshaller())(o)

	cfg, err := options.Resolve(o)
	require.NoError(t, err)
	assert.True(t, cfg.ConstantKeySize)
	assert.Equal(t, float64(8), cfg.AverageKeySize)
}

func Test_Load_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := recipe.Load(filepath.Join(os.TempDir(), "does-not-exist-latticemap.toml"))
	assert.Error(t, err)
}
