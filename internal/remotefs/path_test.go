package remotefs

import "testing"

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "/data/logs", "'/data/logs'"},
		{"spaces", "/data/my logs", "'/data/my logs'"},
		{"single quote", "/data/it's", `'/data/it'"'"'s'`},
		{"metacharacters", "/data/$(rm -rf /)", "'/data/$(rm -rf /)'"},
		{"empty", "", "''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shellQuote(tt.in); got != tt.want {
				t.Errorf("shellQuote(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeDir(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/data/logs/", "/data/logs"},
		{"/data/logs//", "/data/logs"},
		{"/data/logs", "/data/logs"},
		{"/", "/"},
		{"logs/", "logs"},
	}

	for _, tt := range tests {
		if got := normalizeDir(tt.in); got != tt.want {
			t.Errorf("normalizeDir(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParentDir(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/data/logs/run1", "/data/logs"},
		{"/data/logs/run1/", "/data/logs"},
		{"/data", "/"},
		{"/", "/"},
	}

	for _, tt := range tests {
		if got := parentDir(tt.in); got != tt.want {
			t.Errorf("parentDir(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/data/logs/run1", "run1"},
		{"/data/logs/run1/", "run1"},
		{"/data/a.txt", "a.txt"},
	}

	for _, tt := range tests {
		if got := baseName(tt.in); got != tt.want {
			t.Errorf("baseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSiblingPath(t *testing.T) {
	tests := []struct {
		path    string
		newName string
		want    string
	}{
		{"/data/a.txt", "b.txt", "/data/b.txt"},
		{"/data/logs/", "archive", "/data/archive"},
		{"/data/logs/run1", "run2", "/data/logs/run2"},
	}

	for _, tt := range tests {
		if got := siblingPath(tt.path, tt.newName); got != tt.want {
			t.Errorf("siblingPath(%q, %q) = %q, want %q", tt.path, tt.newName, got, tt.want)
		}
	}
}

func TestRelativeTo(t *testing.T) {
	tests := []struct {
		root string
		path string
		want string
	}{
		{"/data/run1", "/data/run1", "."},
		{"/data/run1", "/data/run1/a.txt", "a.txt"},
		{"/data/run1", "/data/run1/sub/deep/b.txt", "sub/deep/b.txt"},
	}

	for _, tt := range tests {
		if got := relativeTo(tt.root, tt.path); got != tt.want {
			t.Errorf("relativeTo(%q, %q) = %q, want %q", tt.root, tt.path, got, tt.want)
		}
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines("/data/run1\n/data/run1/sub\n\n")
	if len(got) != 2 || got[0] != "/data/run1" || got[1] != "/data/run1/sub" {
		t.Errorf("splitLines returned %v", got)
	}

	if got := splitLines(""); got != nil {
		t.Errorf("expected nil for empty output, got %v", got)
	}
}
