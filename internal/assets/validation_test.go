package assets

import (
	"errors"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"simple name", "post", nil},
		{"name with hyphen", "my-shell", nil},
		{"name with underscore", "my_shell", nil},
		{"name with numbers", "post2", nil},
		{"mixed case", "PostShell", nil},
		{"empty name", "", ErrInvalidAssetName},
		{"forward slash", "a/b", ErrInvalidAssetName},
		{"backslash", `a\b`, ErrInvalidAssetName},
		{"parent traversal", "..", ErrInvalidAssetName},
		{"dot extension", "post.html", ErrInvalidAssetName},
		{"space", "my post", ErrInvalidAssetName},
		{"null byte", "post\x00", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAssetName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
