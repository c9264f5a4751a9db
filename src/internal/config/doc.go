// Package config handles configuration file parsing and validation for level-maker.
//
// Configuration is optional: without a file the server listens on :8000,
// serves the working directory and stores levels in ./levels. A config file
// overrides any subset of the defaults. TOML is the default format; files
// ending in .yaml or .yml are parsed as YAML.
//
//	[server]
//	  listen_addr = "127.0.0.1:8000"
//	  root_dir = "web"
//
//	[storage]
//	  levels_dir = "levels"
//	  filename_template = "level_{{id}}.json"
//	  id_width = 2
//
// Relative root_dir is resolved against the config file directory, relative
// levels_dir against root_dir. ValidateConfig reports every invalid field at
// once as ValidationErrors.
package config
