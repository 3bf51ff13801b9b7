package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := LoadRegistry(filepath.Join(t.TempDir(), "registry.json"))
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	return reg
}

func TestRegistryAdd(t *testing.T) {
	t.Run("add then get returns the same fields", func(t *testing.T) {
		reg := newTestRegistry(t)

		added, err := reg.Add("deploy", "https://github.com/acme/deploy.git", "main", "/cache/deploy")
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if added.Name != "deploy" {
			t.Errorf("Name = %q, want %q", added.Name, "deploy")
		}

		got, err := reg.Get("deploy")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.URL != "https://github.com/acme/deploy.git" {
			t.Errorf("URL = %q", got.URL)
		}
		if got.Branch != "main" {
			t.Errorf("Branch = %q, want %q", got.Branch, "main")
		}
		if got.LocalPath != "/cache/deploy" {
			t.Errorf("LocalPath = %q", got.LocalPath)
		}
	})

	t.Run("branch defaults to empty", func(t *testing.T) {
		reg := newTestRegistry(t)
		if _, err := reg.Add("tools", "https://github.com/acme/tools.git", "", "/cache/tools"); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		got, _ := reg.Get("tools")
		if got.Branch != "" {
			t.Errorf("Branch = %q, want empty", got.Branch)
		}
	})

	t.Run("duplicate name fails without mutating", func(t *testing.T) {
		reg := newTestRegistry(t)
		if _, err := reg.Add("deploy", "https://github.com/acme/deploy.git", "", "/cache/deploy"); err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		_, err := reg.Add("deploy", "https://github.com/other/deploy.git", "", "/cache/deploy")
		if !errors.Is(err, ErrDuplicateName) {
			t.Fatalf("Add() error = %v, want ErrDuplicateName", err)
		}

		got, _ := reg.Get("deploy")
		if got.URL != "https://github.com/acme/deploy.git" {
			t.Errorf("registry mutated on duplicate add: URL = %q", got.URL)
		}
		if len(reg.List()) != 1 {
			t.Errorf("len(List()) = %d, want 1", len(reg.List()))
		}
	})

	t.Run("invalid url rejected", func(t *testing.T) {
		reg := newTestRegistry(t)
		if _, err := reg.Add("x", "", "", "/cache/x"); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Add() error = %v, want ErrInvalidURL", err)
		}
	})
}

func TestRegistryRemove(t *testing.T) {
	reg := newTestRegistry(t)
	if _, err := reg.Add("deploy", "https://github.com/acme/deploy.git", "", "/cache/deploy"); err != nil {
		t.Fatal(err)
	}

	if err := reg.Remove("deploy"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := reg.Get("deploy"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Remove error = %v, want ErrNotFound", err)
	}

	if err := reg.Remove("deploy"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove() on unknown error = %v, want ErrNotFound", err)
	}
}

func TestRegistryListOrder(t *testing.T) {
	reg := newTestRegistry(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := reg.Add(name, "https://github.com/acme/"+name+".git", "", "/cache/"+name); err != nil {
			t.Fatal(err)
		}
	}

	list := reg.List()
	want := []string{"zeta", "alpha", "mid"}
	if len(list) != len(want) {
		t.Fatalf("len(List()) = %d, want %d", len(list), len(want))
	}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("List()[%d].Name = %q, want %q (insertion order)", i, list[i].Name, name)
		}
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Add("deploy", "https://github.com/acme/deploy.git", "release", "/cache/deploy"); err != nil {
		t.Fatal(err)
	}
	if err := reg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry() after save error = %v", err)
	}
	got, err := reloaded.Get("deploy")
	if err != nil {
		t.Fatalf("Get() after reload error = %v", err)
	}
	if got.URL != "https://github.com/acme/deploy.git" || got.Branch != "release" || got.LocalPath != "/cache/deploy" {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestLoadRegistryWithComments(t *testing.T) {
	// Hand-edited registry files may carry comments and trailing commas.
	path := filepath.Join(t.TempDir(), "registry.json")
	content := `{
  // my script repos
  "repositories": [
    {
      "name": "deploy",
      "url": "https://github.com/acme/deploy.git",
      "localPath": "/cache/deploy",
    },
  ],
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	if _, err := reg.Get("deploy"); err != nil {
		t.Errorf("Get() error = %v", err)
	}
}

func TestLoadRegistryMissingFile(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join(t.TempDir(), "nope", "registry.json"))
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	if len(reg.List()) != 0 {
		t.Errorf("len(List()) = %d, want 0", len(reg.List()))
	}
}
