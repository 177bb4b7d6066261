// Package config loads movegraph settings from a TOML file.
//
// Every field has a default, so a missing file is not an error and a file
// only needs the keys it changes:
//
//	[style]
//	edge_color = "#ffffff"
//
//	[style.palette]
//	Sweep = "#9467bd"
//
//	[layout]
//	engine = "native"
//	mode = "dagre"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
// [Load] searches the explicit path first and then
// $XDG_CONFIG_HOME/movegraph/config.toml. Values are checked with
// go-playground/validator struct tags; CLI flags are applied on top by the
// caller.
package config
