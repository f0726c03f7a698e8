// Package app contains the core application logic. It loads definition
// files, builds one session per agent and drives every graph at a fixed tick
// rate, decoupled from any specific entrypoint like a CLI or server.
package app
