// Package config manages user-level settings stored at ~/.lamlight/config.yaml
// and LAMLIGHT_* environment variables. Settings are resolved once into a
// Settings value that callers pass to the components they construct.
package config
