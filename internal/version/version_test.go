package version

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"dev", "dev", false},
		{"", "dev", false},
		{"v1.2.3", "1.2.3", false},
		{"1.2", "1.2.0", false},
		{"1.0.0-rc.1", "1.0.0-rc.1", false},
		{"not-a-version", "", true},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Normalize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRequire(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		constraint  string
		unsatisfied bool
		badInput    bool
	}{
		{"no constraint", "1.0.0", "", false, false},
		{"dev build", "dev", ">= 9.0.0", false, false},
		{"satisfied", "v1.4.0", ">= 1.2.0, < 2", false, false},
		{"too old", "1.1.0", ">= 1.2.0", true, false},
		{"too new", "2.0.0", "~1.4", true, false},
		{"bad constraint", "1.0.0", ">= banana", false, true},
		{"bad version", "abc", ">= 1.0.0", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Require(tt.current, tt.constraint)
			switch {
			case tt.unsatisfied:
				if !errors.Is(err, ErrUnsatisfied) {
					t.Errorf("expected ErrUnsatisfied, got %v", err)
				}
			case tt.badInput:
				if err == nil || errors.Is(err, ErrUnsatisfied) {
					t.Errorf("expected parse error, got %v", err)
				}
			default:
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}
