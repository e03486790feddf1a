// Package config loads application configuration from environment variables
// into tagged structs, using github.com/caarlos0/env/v11 for parsing and
// github.com/joho/godotenv for optional .env files.
//
// Every package of the form server exposes its own Config struct:
//
//	var formCfg form.Config
//	if err := config.Load(&formCfg); err != nil {
//		return err
//	}
//	f, err := form.New(rules, form.WithConfig(formCfg))
//
// Load parses each configuration type once per process and caches the
// result. Parse bypasses the cache and supports a variable prefix, which is
// handy when the same struct describes two resources:
//
//	usersDB, err := config.Parse[resolver.PostgresConfig]("USERS_")
//
// LoadEnv reads extra .env files; ResetCache clears the cache in tests.
package config
