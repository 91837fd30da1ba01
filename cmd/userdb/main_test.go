package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		env, err := loadDotEnv(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if len(env) != 0 {
			t.Errorf("got %v", env)
		}
	})
	t.Run("values", func(t *testing.T) {
		dir := t.TempDir()
		content := "# comment\nHTTP=:9090\nLOG_LEVEL=\"debug\"\nHISTORY=true\n"
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		env, err := loadDotEnv(dir)
		if err != nil {
			t.Fatal(err)
		}
		want := map[string]string{"HTTP": ":9090", "LOG_LEVEL": "debug", "HISTORY": "true"}
		if len(env) != len(want) {
			t.Fatalf("got %v, want %v", env, want)
		}
		for k, v := range want {
			if env[k] != v {
				t.Errorf("%s = %q, want %q", k, env[k], v)
			}
		}
	})
}

func TestGetBuildInfo(t *testing.T) {
	version, goVersion, _, _ := getBuildInfo()
	if version == "" || goVersion == "" {
		t.Errorf("version = %q, goVersion = %q", version, goVersion)
	}
}
