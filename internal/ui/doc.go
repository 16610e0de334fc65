// Package ui formats console output for the multigh command-line tools.
//
// Command lifecycle events are rendered as short human-readable lines and
// account status is rendered as an aligned table. Neither ever prints a token.
package ui
