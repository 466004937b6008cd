package errors

import (
	"strings"
	"testing"
)

func TestValidateViewID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple", id: "view_001"},
		{name: "numeric", id: "42"},
		{name: "path-like", id: "rig0/cam2"},
		{name: "empty", id: "", wantErr: true},
		{name: "control character", id: "view\x01", wantErr: true},
		{name: "null byte", id: "view\x00", wantErr: true},
		{name: "newline", id: "view\n1", wantErr: true},
		{name: "too long", id: strings.Repeat("v", 257), wantErr: true},
		{name: "max length", id: strings.Repeat("v", 256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateViewID(tt.id)
			if tt.wantErr && err == nil {
				t.Errorf("ValidateViewID(%q) = nil, want error", tt.id)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateViewID(%q) = %v, want nil", tt.id, err)
			}
			if tt.wantErr && !Is(err, ErrCodeInvalidGraph) {
				t.Errorf("ValidateViewID(%q) code = %v, want INVALID_GRAPH", tt.id, GetCode(err))
			}
		})
	}
}

func TestValidateRunID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "uuid", id: "3e1f1de5-9eab-4dd1-a7c0-72ec2f0010a9"},
		{name: "empty", id: "", wantErr: true},
		{name: "path traversal", id: "../secrets", wantErr: true},
		{name: "backslash", id: "a\\b", wantErr: true},
		{name: "null byte", id: "a\x00b", wantErr: true},
		{name: "too long", id: strings.Repeat("a", 65), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRunID(tt.id)
			if tt.wantErr && err == nil {
				t.Errorf("ValidateRunID(%q) = nil, want error", tt.id)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateRunID(%q) = %v, want nil", tt.id, err)
			}
		})
	}
}
