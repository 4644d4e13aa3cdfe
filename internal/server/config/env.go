package config

import "github.com/ilyakaznacheev/cleanenv"

// parseEnv overlays VIDEOHUB_* environment variables onto config. Variables
// that are not set leave the current value untouched. A malformed value
// (e.g. an unparsable duration) panics, like the other loaders.
func parseEnv(config *Config) {
	if err := cleanenv.ReadEnv(config); err != nil {
		panic(err)
	}
}
