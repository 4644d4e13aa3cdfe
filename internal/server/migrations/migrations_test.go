package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrations_Embedded(t *testing.T) {
	names, err := fs.Glob(Migrations, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("no migrations embedded")
	}

	b, err := fs.ReadFile(Migrations, names[0])
	if err != nil {
		t.Fatalf("read %s: %v", names[0], err)
	}
	body := string(b)
	for _, want := range []string{"+goose Up", "+goose Down", "users_username_uq", "users_email_uq", "blacklisted_tokens", "watch_history"} {
		if !strings.Contains(body, want) {
			t.Fatalf("%s does not contain %q", names[0], want)
		}
	}
}
