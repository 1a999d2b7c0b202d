package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
	assert.Equal(t, "uploads", cfg.UploadsDir)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 2, cfg.ExtractWorkers)
	assert.Equal(t, int64(50), cfg.MaxUploadMB)
	assert.False(t, cfg.MongoTransactions)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"PORT":               "9000",
		"MONGO_TRANSACTIONS": "true",
		"JWT_TTL":            "2h",
		"CORS_ORIGINS":       "http://a.test, http://b.test,",
		"EXTRACT_WORKERS":    "4",
	}))
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.MongoTransactions)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 4, cfg.ExtractWorkers)
}

func TestFromEnv_Invalid(t *testing.T) {
	for name, values := range map[string]map[string]string{
		"bad workers":         {"EXTRACT_WORKERS": "0"},
		"bad ttl":             {"JWT_TTL": "forever"},
		"unknown backend":     {"STORAGE_BACKEND": "s3"},
		"drive without creds": {"STORAGE_BACKEND": "drive"},
		"bad upload size":     {"MAX_UPLOAD_MB": "-1"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(values))
			assert.Error(t, err)
		})
	}
}
