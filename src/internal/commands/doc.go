// Package commands implements CLI command handlers for level-maker.
//
// Each command implements the Runner interface:
//   - Init(): Parse arguments and load configuration
//   - Run(): Execute the command
//   - Name(): Return command name for routing
//
// # Available Commands
//
//   - serve: Run the level editor server
//   - list: Print a table of stored levels
//   - check: Verify every level file and print its checksum
//   - config: Print the effective configuration
package commands
