package main

import (
	"flag"
	"os"
)

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Addr      string
	ModelFile string
	DataDir   string
	LogLevel  string
}

// configResolver defines how to resolve a single configuration value.
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string)
}

// loadServerConfig loads server configuration from CLI flags and environment
// variables. Flags win over the environment, which wins over the default.
// To add a new option, add a resolver here.
func loadServerConfig() ServerConfig {
	cfg := ServerConfig{}

	resolvers := []configResolver{
		{
			flagName:    "addr",
			envVarName:  "BINDR_ADDR",
			defaultVal:  ":8080",
			description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
			setter:      func(c *ServerConfig, v string) { c.Addr = v },
		},
		{
			flagName:    "model-file",
			envVarName:  "BINDR_MODEL_FILE",
			defaultVal:  "",
			description: "optional path to a model config file (JSON or YAML) to register at startup",
			setter:      func(c *ServerConfig, v string) { c.ModelFile = v },
		},
		{
			flagName:    "data-dir",
			envVarName:  "BINDR_DATA_DIR",
			defaultVal:  "./data",
			description: "directory where trajectory files are written",
			setter:      func(c *ServerConfig, v string) { c.DataDir = v },
		},
		{
			flagName:    "log-level",
			envVarName:  "BINDR_LOG_LEVEL",
			defaultVal:  "info",
			description: "log level: debug, info, warn, error",
			setter:      func(c *ServerConfig, v string) { c.LogLevel = v },
		},
	}

	flagVars := make(map[string]*string)
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = flag.String(resolver.flagName, "", resolver.description)
	}
	flag.Parse()

	for _, resolver := range resolvers {
		var value string
		if *flagVars[resolver.flagName] != "" {
			value = *flagVars[resolver.flagName]
		} else if envValue := os.Getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		resolver.setter(&cfg, value)
	}

	return cfg
}
