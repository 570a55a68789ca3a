// Package config resolves huectl settings.
//
// Sources, highest precedence first:
//   - explicit overrides (command-line flags)
//   - environment: HUE_BRIDGE / HUE_IP, HUE_TOKEN / HUE_USERNAME, HUECTL_<SECTION>_<KEY>
//   - the YAML file (~/.huerc unless --config is given), with ${VAR} / ${VAR:default} expansion
//   - built-in defaults
//
// A missing bridge address or token is reported by Validate and is fatal at startup.
package config
