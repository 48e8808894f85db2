// Package command defines the rwmap-bench command line with urfave/cli/v2.
//
//   - root.go: the App, global flags, config loading and result printing
//   - run.go: run a workload against an rwmap.Map
//   - restore.go: inspect a snapshot file
//   - config.go: print the effective configuration
//   - version.go: print build information
//
// Commands parse flags into a configuration, do their work through the
// bench and rwmap packages, and print results with the output package.
package command
