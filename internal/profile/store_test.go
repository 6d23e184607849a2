package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuiltin(t *testing.T) {
	store := LoadBuiltin()

	if store.Len() == 0 {
		t.Fatal("expected builtin profiles to load")
	}

	for _, name := range []string{"cobol", "java", "pascal", "pli", "cpp", "markdown"} {
		if store.Get(name) == nil {
			t.Errorf("missing builtin profile %q", name)
		}
	}
}

func TestBuiltinCobolProfile(t *testing.T) {
	p := LoadBuiltin().Get("cobol")
	if p == nil {
		t.Fatal("cobol profile not loaded")
	}

	if !p.BlockStructured {
		t.Error("cobol should be block structured")
	}
	if !p.HasExtension(".cbl") {
		t.Error("cobol should claim .cbl")
	}
	if p.HasExtension(".java") {
		t.Error("cobol should not claim .java")
	}
	if len(p.StrongRegex()) == 0 {
		t.Error("strong patterns did not compile")
	}
	if len(p.SectionRegex()) == 0 {
		t.Error("section markers did not compile")
	}
	if p.Chunking.PreferredSize != 175 {
		t.Errorf("preferred size = %d, want 175", p.Chunking.PreferredSize)
	}
	if p.Chunking.OverlapSize != 25 {
		t.Errorf("overlap size = %d, want 25", p.Chunking.OverlapSize)
	}
}

func TestStoreNamesOrdered(t *testing.T) {
	store := LoadBuiltin()
	names := store.Names()

	if len(names) != store.Len() {
		t.Fatalf("Names returned %d entries, Len is %d", len(names), store.Len())
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not in stable sorted order: %q before %q", names[i-1], names[i])
		}
	}
}

func TestFallbackAlwaysPresent(t *testing.T) {
	store := NewStore()
	fb := store.Fallback()
	if fb == nil {
		t.Fatal("empty store must still carry a fallback profile")
	}
	if fb.ConfidenceRequired != 0 {
		t.Errorf("fallback threshold = %v, want 0", fb.ConfidenceRequired)
	}
	if len(fb.RuleRegex()) == 0 {
		t.Error("fallback rule patterns did not compile")
	}
	if fb.Chunking != DefaultChunking {
		t.Errorf("fallback chunking = %+v, want defaults", fb.Chunking)
	}
}

func TestLoadDirMissing(t *testing.T) {
	store, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if store == nil || store.Fallback() == nil {
		t.Fatal("LoadDir must still return a usable fallback-only store")
	}
}

func TestLoadDirSkipsMalformed(t *testing.T) {
	dir := t.TempDir()

	good := `name: toy
file_extensions: [".toy"]
strong_patterns: ['^begin']
rule_patterns: ['^\s*if ']
`
	if err := os.WriteFile(filepath.Join(dir, "toy.yaml"), []byte(good), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("{not yaml: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nameless.yaml"), []byte("description: no name\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("loaded %d profiles, want 1 (malformed docs skipped)", store.Len())
	}
	if store.Get("toy") == nil {
		t.Error("valid profile was not loaded")
	}
}

func TestCompileDropsBadPatterns(t *testing.T) {
	p := &Profile{
		Name:           "x",
		StrongPatterns: []string{`valid`, `([unclosed`},
	}
	p.Compile()
	if len(p.StrongRegex()) != 1 {
		t.Errorf("compiled %d strong patterns, want 1 (bad pattern dropped)", len(p.StrongRegex()))
	}
}
