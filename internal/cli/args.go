// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "strings"

// =============================================================================
// ARG PARSER
// =============================================================================

// Args holds parsed command-line options.
type Args struct {
	// Plain forces the REPL instead of the TUI
	Plain bool

	// Model overrides the configured default model
	Model string

	// ConfigPath overrides the config file location
	ConfigPath string

	// ShowVersion prints version information and exits
	ShowVersion bool

	// ShowHelp prints usage and exits
	ShowHelp bool
}

// Parse reads raw arguments into Args. Flags accept both "--flag value" and
// "--flag=value" forms; unknown flags are ignored rather than fatal.
func Parse(raw []string) Args {
	var args Args

	i := 0
	for i < len(raw) {
		arg := raw[i]
		name, value, hasValue := splitFlag(arg)

		switch name {
		case "plain", "no-tui":
			args.Plain = true
		case "version", "v":
			args.ShowVersion = true
		case "help", "h":
			args.ShowHelp = true
		case "model", "m":
			if !hasValue && i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
				value = raw[i+1]
				i++
			}
			args.Model = value
		case "config":
			if !hasValue && i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
				value = raw[i+1]
				i++
			}
			args.ConfigPath = value
		}
		i++
	}
	return args
}

// splitFlag breaks "--flag=value" into its parts. Non-flag arguments yield
// an empty name.
func splitFlag(arg string) (name, value string, hasValue bool) {
	if !strings.HasPrefix(arg, "-") {
		return "", "", false
	}
	arg = strings.TrimLeft(arg, "-")
	if idx := strings.IndexByte(arg, '='); idx >= 0 {
		return arg[:idx], arg[idx+1:], true
	}
	return arg, "", false
}
