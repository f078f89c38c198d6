// Package commands defines the scoreboard CLI and wires dependencies for subcommands.
//
// Commands
//
//   - score <number>  Look up one candidate by registration number
//   - report          Per-subject score band report
//   - top             Group A leaderboard
//   - summary         Dashboard summary
//   - overview        Report and leaderboard fetched together
//   - health          Probe the scoring service
//
// The root command loads configuration, initializes logging and builds the
// app (cache, transport client, accessor) before any subcommand runs.
package commands
