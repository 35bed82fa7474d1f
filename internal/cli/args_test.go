// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want Args
	}{
		{"empty", nil, Args{}},
		{"plain", []string{"--plain"}, Args{Plain: true}},
		{"model with space", []string{"--model", "gpt-4o"}, Args{Model: "gpt-4o"}},
		{"model with equals", []string{"--model=gpt-4o"}, Args{Model: "gpt-4o"}},
		{"short model", []string{"-m", "gpt-4o"}, Args{Model: "gpt-4o"}},
		{"version", []string{"--version"}, Args{ShowVersion: true}},
		{"help short", []string{"-h"}, Args{ShowHelp: true}},
		{"config path", []string{"--config=/tmp/c.toml"}, Args{ConfigPath: "/tmp/c.toml"}},
		{"combined", []string{"--plain", "-m", "pro"}, Args{Plain: true, Model: "pro"}},
		{"unknown ignored", []string{"--wat", "--plain"}, Args{Plain: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.raw); got != tt.want {
				t.Errorf("Parse(%v) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}
