// Package config handles loading the console's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/studiocommand/console.toml
//  3. If the file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are blank, keep the defaults
//
// # Default Values
//
//   - Engine endpoint: 127.0.0.1:3000
//   - STUN server: stun:stun.l.google.com:19302
//
// Missing config files are NOT an error - the console works
// out-of-the-box against an engine on the default local bind. Tilde
// expansion is performed on the config path.
//
// Operator-adjustable settings that the console itself writes back
// (theme, meter visibility) live in the prefs package instead; this
// package is read-only and stateless.
package config
