package history

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRepo(t *testing.T) {
	ctx := t.Context()
	dir := t.TempDir()
	r, err := Open(dir, "userdb", "userdb@localhost")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("empty log", func(t *testing.T) {
		commits, err := r.Log(ctx, "users.csv", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(commits) != 0 {
			t.Errorf("got %d commits", len(commits))
		}
	})

	path := filepath.Join(dir, "users.csv")
	write := func(t *testing.T, content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("commits", func(t *testing.T) {
		write(t, "id\n")
		if err := r.Commit(ctx, "POST /users", path); err != nil {
			t.Fatal(err)
		}
		write(t, "id\n1\n")
		if err := r.Commit(ctx, "PUT /users/1\n\nbody", "users.csv"); err != nil {
			t.Fatal(err)
		}
		// Unchanged content produces no commit.
		if err := r.Commit(ctx, "DELETE /users/9", path); err != nil {
			t.Fatal(err)
		}
		commits, err := r.Log(ctx, path, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(commits) != 2 {
			t.Fatalf("got %d commits, want 2", len(commits))
		}
		if commits[0].Message != "PUT /users/1" || commits[1].Message != "POST /users" {
			t.Errorf("messages = %q, %q", commits[0].Message, commits[1].Message)
		}
		if commits[0].Author != "userdb" || commits[0].Email != "userdb@localhost" {
			t.Errorf("author = %s <%s>", commits[0].Author, commits[0].Email)
		}
		if len(commits[0].Hash) != 40 {
			t.Errorf("hash = %q", commits[0].Hash)
		}
		limited, err := r.Log(ctx, "users.csv", 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(limited) != 1 {
			t.Errorf("got %d commits, want 1", len(limited))
		}
	})

	t.Run("reopen", func(t *testing.T) {
		r2, err := Open(dir, "other", "other@localhost")
		if err != nil {
			t.Fatal(err)
		}
		commits, err := r2.Log(ctx, "", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(commits) != 2 {
			t.Errorf("got %d commits, want 2", len(commits))
		}
	})

	t.Run("outside", func(t *testing.T) {
		if err := r.Commit(ctx, "x", filepath.Join(filepath.Dir(dir), "elsewhere.csv")); err == nil {
			t.Error("expected error")
		}
		if err := r.Commit(ctx, "x"); err != nil {
			t.Errorf("no files: %v", err)
		}
	})
}
