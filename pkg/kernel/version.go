package kernel

// Version is the engine release, matched against the requires constraint in
// pell.toml.
const Version = "0.3.1"
