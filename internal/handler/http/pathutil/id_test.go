package pathutil

import (
	"errors"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "1", want: 1},
		{raw: "42", want: 42},
		{raw: " 7 ", want: 7},
		{raw: "9223372036854775807", want: 9223372036854775807},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "1.5", wantErr: true},
		{raw: "9223372036854775808", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseID(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidID) {
					t.Fatalf("ParseID(%q) error = %v, want ErrInvalidID", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseID(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseID(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		prefix  string
		want    int64
		wantErr bool
	}{
		{name: "plain", path: "/notes/12", prefix: "/notes/", want: 12},
		{name: "sub resource", path: "/notes/12/pin", prefix: "/notes/", want: 12},
		{name: "missing id", path: "/notes/", prefix: "/notes/", wantErr: true},
		{name: "word", path: "/notes/import", prefix: "/notes/", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractID(tt.path, tt.prefix)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidID) {
					t.Fatalf("error = %v, want ErrInvalidID", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
