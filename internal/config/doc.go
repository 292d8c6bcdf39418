// Package config manages project-level settings stored in .fileenum.yaml in
// the working directory. Values are layered by Viper: command-line flags win
// over FILEENUM_* environment variables, which win over the config file,
// which wins over built-in defaults. The config file is validated against an
// embedded JSON schema before it is used.
package config
