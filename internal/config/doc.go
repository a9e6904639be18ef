// Package config loads entrypoint configuration from multiple sources (a YAML
// defaults file, a dotenv file, the process environment, CLI flags) with
// precedence: CLI flags > environment variables > env file > YAML defaults >
// built-in defaults. The resulting Config carries an immutable snapshot of the
// resolver inputs so nothing downstream reads the environment again.
package config
