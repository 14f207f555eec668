// Command glprint prints the rendering fingerprint of this machine.
//
// Running glprint with no subcommand is the same as glprint generate: it
// renders the fingerprint triangle on the selected backend and prints the
// 64-character hex digest. Other subcommands list the registered backends
// and print the effective configuration.
//
// Settings come from defaults, a TOML file (--config, or
// $XDG_CONFIG_HOME/glprint/config.toml), GLPRINT_* environment variables
// and flags, in increasing order of precedence.
package main
