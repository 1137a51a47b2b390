/*
Package log provides structured logging for dockwatch using zerolog.

A single global logger is initialized once via Init with a level and an
output format (JSON for machines, console for humans). Packages derive
child loggers with WithComponent, and per-container log context is attached
with WithContainer so every supervision decision is traceable to a specific
container id and name.
*/
package log
