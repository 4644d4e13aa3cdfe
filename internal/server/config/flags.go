package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/videohub/internal/flagx"
)

var supportedFlags = []string{
	"-a", "-d", "-s", "-k", "-t", "-r", "-u", "-p", "-b", "-g", "-e",
	"-env", "-blacklist", "-redis",
}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          HTTP bind address (e.g. ":8000")
//	-d string          PostgreSQL DSN
//	-s string          access token secret
//	-k string          refresh token secret
//	-t int             access token validity, minutes
//	-r int             refresh token validity, minutes
//	-u string          S3 root user
//	-p string          S3 root password
//	-b string          S3 bucket name
//	-g string          S3 region
//	-e string          S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//	-env string        environment ("development" or "production")
//	-blacklist string  blacklist backend ("postgres" or "redis")
//	-redis string      Redis address for the redis blacklist backend
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// loaders (-c/-config) do not cause parse errors.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], supportedFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessTokenSecret, "s", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "k", config.RefreshTokenSecret, "refresh token secret")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.Env, "env", config.Env, "environment")
	fs.StringVar(&config.BlacklistBackend, "blacklist", config.BlacklistBackend, "blacklist backend (postgres|redis)")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// minute-granular flags only override when given explicitly
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidity) * time.Minute
		}
	})
}
