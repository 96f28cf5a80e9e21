package docpath

import (
	"reflect"
	"testing"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{"root is empty", "", nil},
		{"single segment", "hr", []string{"hr"}},
		{"nested", "hr/policies/2024", []string{"hr", "policies", "2024"}},
		{"empty segments dropped", "hr//policies/", []string{"hr", "policies"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segments(tt.path)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segments(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestParent(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", Root},
		{"hr", Root},
		{"hr/policies", "hr"},
		{"hr/policies/2024", "hr/policies"},
	}

	for _, tt := range tests {
		if got := Parent(tt.path); got != tt.want {
			t.Errorf("Parent(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		parent string
		name   string
		want   string
	}{
		{Root, "hr", "hr"},
		{"hr", "policies", "hr/policies"},
		{"hr/policies", "2024", "hr/policies/2024"},
		{Root, "  legal  ", "legal"}, // whitespace trimmed before join
	}

	for _, tt := range tests {
		if got := Join(tt.parent, tt.name); got != tt.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tt.parent, tt.name, got, tt.want)
		}
	}
}

// join(parent(p), lastSegment(p)) == p for all valid paths.
func TestParentJoinRoundTrip(t *testing.T) {
	paths := []string{"hr", "hr/policies", "hr/policies/2024", "legal"}
	for _, p := range paths {
		if got := Join(Parent(p), LastSegment(p)); got != p {
			t.Errorf("Join(Parent(%q), LastSegment(%q)) = %q, want %q", p, p, got, p)
		}
	}

	// parent(join(root, n)) == root for all root-level names.
	for _, n := range []string{"hr", "legal", "finance"} {
		if got := Parent(Join(Root, n)); got != Root {
			t.Errorf("Parent(Join(root, %q)) = %q, want root", n, got)
		}
	}
}

func TestIsDirectChild(t *testing.T) {
	tests := []struct {
		candidate string
		parent    string
		want      bool
	}{
		{"hr", Root, true},
		{"hr/policies", Root, false},
		{"hr/policies", "hr", true},
		{"hr/policies/2024", "hr", false},
		{"hr/policies/2024", "hr/policies", true},
		{"hrx/policies", "hr", false}, // prefix must be segment-aligned
		{"legal", "hr", false},
	}

	for _, tt := range tests {
		if got := IsDirectChild(tt.candidate, tt.parent); got != tt.want {
			t.Errorf("IsDirectChild(%q, %q) = %v, want %v", tt.candidate, tt.parent, got, tt.want)
		}
	}
}

func TestIsTopLevel(t *testing.T) {
	if !IsTopLevel("hr") {
		t.Error("IsTopLevel(\"hr\") should be true")
	}
	if IsTopLevel("hr/policies") {
		t.Error("IsTopLevel(\"hr/policies\") should be false")
	}
	if IsTopLevel("") {
		t.Error("IsTopLevel(root) should be false")
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("policies"); err != nil {
		t.Errorf("ValidateName(\"policies\") error = %v", err)
	}
	if err := ValidateName("  "); err == nil {
		t.Error("ValidateName of blank name should fail")
	}
	if err := ValidateName("a/b"); err == nil {
		t.Error("ValidateName of name containing slash should fail")
	}
}
