/*
Package config loads and validates the dockwatch runtime configuration.

Sources merge in precedence order, lowest first: built-in defaults, an
optional YAML file, DOCKWATCH_* environment variables, and finally the
command-line flags applied by the caller. Durations are configured in
milliseconds; a restart interval of zero means observe-only mode.
*/
package config
