// Package config loads the project settings of compgen. Settings come from an
// optional compgen.yaml validated against an embedded JSON schema, from
// COMPGEN_* environment variables (optionally seeded by a .env file next to
// the config), and from built-in defaults matching the conventional gbe
// project layout.
package config
