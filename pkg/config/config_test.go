package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	require.NotNil(t, cfg)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Verification.CodeTTL)
	assert.Equal(t, 6, cfg.Verification.MinPasswordLength)
	assert.Equal(t, "main", cfg.GitHub.ContentBranch)
	assert.False(t, cfg.GitHub.Enabled())
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("STORE_DRIVER", "Redis")
	v.Set("ADMIN_EMAIL", " Admin@Example.com ")
	v.Set("GITHUB_TOKEN", "token")
	v.Set("GITHUB_OWNER", "science-hub")
	v.Set("VERIFICATION_CODE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", "http://localhost:3000, ,https://sciencehub.example")

	cfg := fromViper(v)
	assert.Equal(t, StoreDriverRedis, cfg.Store.Driver)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
	assert.True(t, cfg.GitHub.Enabled())
	assert.Equal(t, 15*time.Minute, cfg.Verification.CodeTTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://sciencehub.example"}, cfg.CORS.AllowedOrigins)
}
