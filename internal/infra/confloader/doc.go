// Package confloader loads rwmap-bench configuration.
//
// Configuration is assembled with koanf from up to four sources. Later
// sources override earlier ones:
//
//  1. Default values (the target struct as passed to Load)
//  2. YAML configuration file
//  3. Environment variables (prefix RWMAP_)
//  4. Command-line flags (via LoadMap)
//
// Environment variable names map to keys by stripping the prefix,
// lowercasing, and turning a double underscore into a key separator:
// RWMAP_WORKLOAD__READ_RATIO becomes workload.read_ratio.
//
// Watcher reports writes to watched configuration files so callers can
// reload the parts of the configuration that are safe to change at runtime.
package confloader
