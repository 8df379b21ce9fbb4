// Package confloader loads configuration from files, environment
// variables and maps using koanf.
//
// Priority (highest to lowest):
//
//  1. Explicit overrides (flags, via LoadMap)
//  2. Environment variables
//  3. Configuration file (YAML)
//  4. Defaults in the target struct
package confloader
