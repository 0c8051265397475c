// Package confloader provides configuration loading mechanism.
//
// This package loads configuration from environment variables using
// koanf as the underlying library, then unmarshals into a typed struct.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (applied by the caller after Load)
//  2. Environment variables
//  3. Default values (the caller's zero-value struct before Load)
package confloader
