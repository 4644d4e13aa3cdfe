package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/videohub/internal/flagx"
	"github.com/dmitrijs2005/videohub/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" strings and integer nanoseconds are accepted.
// Only keys present in the file (non-zero after decoding) override the
// current values.
type JsonConfig struct {
	Env                          string         `json:"env"`
	HTTPAddr                     string         `json:"http_addr"`
	APIPrefix                    string         `json:"api_prefix"`
	DatabaseDSN                  string         `json:"database_dsn"`
	AccessTokenSecret            string         `json:"access_token_secret"`
	RefreshTokenSecret           string         `json:"refresh_token_secret"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	PasswordHashCost             int            `json:"password_hash_cost"`
	BlacklistBackend             string         `json:"blacklist_backend"`
	BlacklistTTL                 timex.Duration `json:"blacklist_ttl"`
	BlacklistPurgeInterval       timex.Duration `json:"blacklist_purge_interval"`
	RedisAddr                    string         `json:"redis_addr"`
	RedisPassword                string         `json:"redis_password"`
	UploadDir                    string         `json:"upload_dir"`
	StaticDir                    string         `json:"static_dir"`
	CORSOrigin                   string         `json:"cors_origin"`
	LoginRateLimit               int            `json:"login_rate_limit"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	S3PublicURL                  string         `json:"s3_public_url"`
}

// parseJson loads the file named by -c/-config (if any) into config.
// A missing or malformed file panics.
func parseJson(config *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.Env, c.Env)
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.APIPrefix, c.APIPrefix)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	setString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.PasswordHashCost != 0 {
		config.PasswordHashCost = c.PasswordHashCost
	}
	setString(&config.BlacklistBackend, c.BlacklistBackend)
	if c.BlacklistTTL.Duration != 0 {
		config.BlacklistTTL = c.BlacklistTTL.Duration
	}
	if c.BlacklistPurgeInterval.Duration != 0 {
		config.BlacklistPurgeInterval = c.BlacklistPurgeInterval.Duration
	}
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.StaticDir, c.StaticDir)
	setString(&config.CORSOrigin, c.CORSOrigin)
	if c.LoginRateLimit != 0 {
		config.LoginRateLimit = c.LoginRateLimit
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicURL, c.S3PublicURL)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
