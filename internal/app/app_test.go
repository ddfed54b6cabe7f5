package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quochuy242/AdidasScraper/internal/logging"
	"github.com/quochuy242/AdidasScraper/internal/sink"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetDefault("archive.provider", "none")
	viper.SetDefault("database.provider", "none")
	viper.SetDefault("publish.provider", "none")
	viper.SetDefault("status.enabled", false)
	logging.InitLogger(false)
}

func TestNewWithDefaultsHasNoOptionalServices(t *testing.T) {
	resetViper(t)

	a, err := New(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, a.Logger())
	assert.Nil(t, a.Archive())
	assert.Nil(t, a.Publisher())
	assert.Nil(t, a.Snapshot())
}

func TestNewRejectsUnknownProviders(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"archive.provider", "s3"},
		{"database.provider", "mysql"},
		{"publish.provider", "kafka"},
	}
	for _, tc := range tests {
		resetViper(t)
		viper.Set(tc.key, tc.value)

		_, err := New(context.Background())
		require.Error(t, err, "%s=%s", tc.key, tc.value)
	}
}

func TestNewWithLocalArchive(t *testing.T) {
	resetViper(t)
	viper.Set("archive.provider", "local")
	viper.Set("archive.local.base_dir", filepath.Join(t.TempDir(), "pages"))

	a, err := New(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, a.Archive())
}

func TestNewGCSRequiresBucket(t *testing.T) {
	resetViper(t)
	viper.Set("archive.provider", "gcs")

	_, err := New(context.Background())
	require.Error(t, err)
}

func TestNewPostgresRequiresDSN(t *testing.T) {
	resetViper(t)
	viper.Set("database.provider", "postgres")

	_, err := New(context.Background())
	require.Error(t, err)
}

func TestRecordSinks(t *testing.T) {
	resetViper(t)

	a, err := New(context.Background())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "products.csv")
	sinks, err := a.RecordSinks(out, "csv")
	require.NoError(t, err)
	require.Len(t, sinks, 1)
	assert.IsType(t, &sink.CSVSink{}, sinks[0])

	sinks, err = a.RecordSinks(out, "json")
	require.NoError(t, err)
	assert.IsType(t, &sink.JSONSink{}, sinks[0])

	_, err = a.RecordSinks(out, "xml")
	require.Error(t, err)
}
