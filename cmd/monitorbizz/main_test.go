package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		env, err := loadDotEnv(t.TempDir())
		if err != nil || len(env) != 0 {
			t.Errorf("loadDotEnv() = %v, %v", env, err)
		}
	})

	tests := []struct {
		name    string
		content string
		want    map[string]string
		wantErr bool
	}{
		{"plain", "HTTP=:9090\n# comment\n\nLOG_LEVEL = debug\n", map[string]string{"HTTP": ":9090", "LOG_LEVEL": "debug"}, false},
		{"quoted", `STORAGE="bolt"` + "\n", map[string]string{"STORAGE": "bolt"}, false},
		{"no equal", "JUNK\nHTTP=:1\n", map[string]string{"HTTP": ":1"}, false},
		{"single quotes", "HTTP=':1'\n", nil, true},
		{"bad quotes", `HTTP="oops` + "\n", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			got, err := loadDotEnv(dir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadDotEnv() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Errorf("loadDotEnv() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
