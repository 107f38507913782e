package validation

import (
	"math"
	"strings"
	"testing"
)

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     any
		wantErr string
	}{
		{"valid switch", &SwitchRequest{ID: "s1", Ports: []int{1, 2}}, ""},
		{"missing switch id", &SwitchRequest{}, "id: field is required"},
		{"bad switch id", &SwitchRequest{ID: "s 1"}, `id: invalid switch id "s 1"`},
		{"long switch id", &SwitchRequest{ID: strings.Repeat("a", 65)}, "invalid switch id"},
		{"bad port", &SwitchRequest{ID: "s1", Ports: []int{70000}}, "must not exceed 65535"},
		{"valid link", &LinkRequest{Src: "A", Dst: "B", Bandwidth: 10}, ""},
		{"zero bandwidth", &LinkRequest{Src: "A", Dst: "B"}, "bandwidth: must be greater than 0"},
		{"negative bandwidth", &LinkRequest{Src: "A", Dst: "B", Bandwidth: -1}, "bandwidth"},
		{"infinite bandwidth", &LinkRequest{Src: "A", Dst: "B", Bandwidth: math.Inf(1)}, "must be finite"},
		{"self loop", &LinkRequest{Src: "A", Dst: "A", Bandwidth: 1}, "dst: must differ from src"},
		{"valid link ref", &LinkRefRequest{Src: "A", Dst: "B"}, ""},
		{"valid flow", &FlowRequest{Src: "A", Dst: "C", Bandwidth: 2, Priority: -3}, ""},
		{"same-switch flow", &FlowRequest{Src: "A", Dst: "A", Bandwidth: 2}, ""},
		{"flow without demand", &FlowRequest{Src: "A", Dst: "C"}, "bandwidth"},
		{"nan priority", &FlowRequest{Src: "A", Dst: "C", Bandwidth: 1, Priority: math.NaN()}, "priority"},
		{"valid path", &PathRequest{Src: "A", Dst: "C", K: 3}, ""},
		{"path without k", &PathRequest{Src: "A", Dst: "C"}, ""},
		{"k too large", &PathRequest{Src: "A", Dst: "C", K: 101}, "k: must not exceed 100"},
		{"nil request", (*FlowRequest)(nil), "cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateSwitchID(t *testing.T) {
	for _, id := range []string{"A", "leaf-1", "spine_2", "10.0.0.1", "of:0001"} {
		if err := ValidateSwitchID(id); err != nil {
			t.Errorf("Expected %q valid, got %v", id, err)
		}
	}
	for _, id := range []string{"", "a/b", "has space", strings.Repeat("x", 65)} {
		if err := ValidateSwitchID(id); err == nil {
			t.Errorf("Expected %q invalid", id)
		}
	}
}
