// Package commands defines the lookup CLI and wires its dependencies.
//
// Commands
//
//   - serve    Run the browser front end and JSON API
//   - tui      Run the wizard in the terminal
//   - makes    Print the car makes vPIC knows
//   - models   Print the models of one make for one model year
//   - events   Tail lookup events from NATS
//
// # Implementation
//
// The root command loads configuration (defaults, optional TOML file, then
// environment, then flags) before any subcommand runs. Each subcommand
// builds the vPIC client it needs from that configuration.
package commands
