package loam

// Version is the module version reported by the CLI.
const Version = "0.3.0"
