// Package config loads drcscan configuration from local and global YAML files
// and from the environment (optionally seeded by a .env file). It is internal;
// CLI code maps flags and the merged file configuration into engine and
// server settings.
package config
