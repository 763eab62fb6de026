package preflight

// Version is the current release of the preflight harness.
const Version = "0.4.1"
