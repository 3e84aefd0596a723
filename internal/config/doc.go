// Package config manages user-level settings stored at
// ~/.discoverable/config.yaml and DISCOVERABLE_* environment variables.
// It provides functions to load, read, and write keys such as the default
// catalog root, the manifest file name, and the log level.
package config
