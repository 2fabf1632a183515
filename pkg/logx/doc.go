// Package logx wraps zerolog behind a small structured-logging API with
// swappable sinks (console, file) so a config reload can re-apply the
// level and outputs without rewiring every component.
package logx
