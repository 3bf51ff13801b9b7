package core

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// requireGit skips tests that need the real git binary.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// git runs a git command in dir and fails the test on error.
func git(t *testing.T, dir string, args ...string) {
	t.Helper()
	full := append([]string{"-C", dir, "-c", "user.name=qi-test", "-c", "user.email=qi@test.invalid"}, args...)
	cmd := exec.Command("git", full...)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

// makeSourceRepo creates a commit-bearing git repository with script files.
func makeSourceRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	requireGit(t)

	dir := t.TempDir()
	git(t, dir, "init", "--quiet")
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	git(t, dir, "add", ".")
	git(t, dir, "commit", "--quiet", "-m", "init")
	return dir
}

func testRepo(t *testing.T, url string) (*CacheStore, *Repository) {
	t.Helper()
	cacheRoot := t.TempDir()
	return NewCacheStore(cacheRoot), &Repository{
		Name:      "deploy",
		URL:       url,
		LocalPath: filepath.Join(cacheRoot, "deploy"),
	}
}

func TestCacheClone(t *testing.T) {
	t.Run("creates a working copy", func(t *testing.T) {
		src := makeSourceRepo(t, map[string]string{"backup.bash": "echo backup\n"})
		store, repo := testRepo(t, src)

		if store.Exists(repo) {
			t.Fatal("Exists() = true before clone")
		}
		if err := store.Clone(repo); err != nil {
			t.Fatalf("Clone() error = %v", err)
		}
		if !store.Exists(repo) {
			t.Error("Exists() = false after clone")
		}
		if !fileExists(filepath.Join(repo.LocalPath, "backup.bash")) {
			t.Error("backup.bash missing from working copy")
		}
	})

	t.Run("failure leaves no partial directory", func(t *testing.T) {
		requireGit(t)
		store, repo := testRepo(t, filepath.Join(t.TempDir(), "no-such-repo"))

		err := store.Clone(repo)
		if err == nil {
			t.Fatal("Clone() of a missing remote succeeded")
		}
		ge, ok := AsGitError(err)
		if !ok {
			t.Fatalf("Clone() error = %T, want *GitError", err)
		}
		if ge.Op != OpClone {
			t.Errorf("Op = %q, want clone", ge.Op)
		}
		if store.Exists(repo) {
			t.Error("partial working copy left behind")
		}

		// The temp clone staging dir must be cleaned up too.
		entries, readErr := os.ReadDir(filepath.Dir(repo.LocalPath))
		if readErr != nil {
			t.Fatal(readErr)
		}
		for _, e := range entries {
			t.Errorf("leftover entry in cache root: %s", e.Name())
		}
	})
}

func TestCacheSync(t *testing.T) {
	t.Run("picks up new commits", func(t *testing.T) {
		src := makeSourceRepo(t, map[string]string{"backup.bash": "echo backup\n"})
		store, repo := testRepo(t, src)
		if err := store.Clone(repo); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(filepath.Join(src, "setup.bash"), []byte("echo setup\n"), 0o755); err != nil {
			t.Fatal(err)
		}
		git(t, src, "add", ".")
		git(t, src, "commit", "--quiet", "-m", "add setup")

		if err := store.Sync(repo); err != nil {
			t.Fatalf("Sync() error = %v", err)
		}
		if !fileExists(filepath.Join(repo.LocalPath, "setup.bash")) {
			t.Error("setup.bash missing after sync")
		}
	})

	t.Run("failed sync leaves the working copy intact", func(t *testing.T) {
		src := makeSourceRepo(t, map[string]string{"backup.bash": "echo backup\n"})
		store, repo := testRepo(t, src)
		if err := store.Clone(repo); err != nil {
			t.Fatal(err)
		}

		before, err := os.ReadFile(filepath.Join(repo.LocalPath, "backup.bash"))
		if err != nil {
			t.Fatal(err)
		}

		// Simulate an unreachable remote.
		git(t, repo.LocalPath, "remote", "set-url", "origin", filepath.Join(t.TempDir(), "gone"))

		syncErr := store.Sync(repo)
		if syncErr == nil {
			t.Fatal("Sync() against a dead remote succeeded")
		}
		if ge, ok := AsGitError(syncErr); !ok || ge.Op != OpSync {
			t.Errorf("Sync() error = %v, want *GitError with Op sync", syncErr)
		}

		after, err := os.ReadFile(filepath.Join(repo.LocalPath, "backup.bash"))
		if err != nil {
			t.Fatalf("working copy gone after failed sync: %v", err)
		}
		if string(before) != string(after) {
			t.Error("working copy mutated by failed sync")
		}

		// The index must still see the repository's scripts.
		ix, err := BuildIndex([]Repository{*repo})
		if err != nil {
			t.Fatal(err)
		}
		if len(ix.Lookup("backup")) != 1 {
			t.Error("index lost scripts after failed sync")
		}
	})

	t.Run("sync without a working copy is NotFound", func(t *testing.T) {
		store, repo := testRepo(t, "/nowhere")
		if err := store.Sync(repo); !errors.Is(err, ErrNotFound) {
			t.Errorf("Sync() error = %v, want ErrNotFound", err)
		}
	})
}

func TestCacheDelete(t *testing.T) {
	src := makeSourceRepo(t, map[string]string{"backup.bash": "echo backup\n"})
	store, repo := testRepo(t, src)
	if err := store.Clone(repo); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(repo); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if store.Exists(repo) {
		t.Error("working copy still present after delete")
	}

	// Deleting an absent entry is a no-op success.
	if err := store.Delete(repo); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}
}

func TestCacheDeleteFailure(t *testing.T) {
	// A deletion failure must surface as ErrDeleteFailed so the caller
	// keeps the registry entry; here the failure is injected.
	dir := t.TempDir()
	repoDir := filepath.Join(dir, "deploy")
	if err := os.MkdirAll(repoDir, 0o755); err != nil {
		t.Fatal(err)
	}

	removeAll = func(string) error { return errors.New("device busy") }
	t.Cleanup(func() { removeAll = os.RemoveAll })

	store := NewCacheStore(dir)
	repo := &Repository{Name: "deploy", LocalPath: repoDir}

	err := store.Delete(repo)
	if !errors.Is(err, ErrDeleteFailed) {
		t.Fatalf("Delete() error = %v, want ErrDeleteFailed", err)
	}
	if !store.Exists(repo) {
		t.Error("working copy reported gone after failed delete")
	}
}
