package database

import (
	"strings"
	"testing"

	"github.com/iliyamo/hall-config-editor/internal/config"
)

func TestStatements(t *testing.T) {
	src := `-- halls
CREATE TABLE a (
    id INT
);

CREATE TABLE b (id INT);
INSERT INTO b VALUES (1),
    (2);
`
	got := Statements(src)
	if len(got) != 3 {
		t.Fatalf("Expected 3 statements, got %d: %q", len(got), got)
	}
	if !strings.HasPrefix(got[0], "CREATE TABLE a") || strings.HasSuffix(got[0], ";") {
		t.Errorf("Expected first statement without terminator, got %q", got[0])
	}
	if !strings.Contains(got[2], "(2)") {
		t.Errorf("Expected multi-line insert kept together, got %q", got[2])
	}
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("Expected embedded migrations")
	}
	for _, e := range entries {
		b, err := migrations.ReadFile("migrations/" + e.Name())
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		if len(Statements(string(b))) == 0 {
			t.Errorf("Expected statements in %s", e.Name())
		}
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{DBUser: "app", DBPass: "secret", DBHost: "db", DBPort: "3306", DBName: "halls"})
	for _, want := range []string{"app:secret@tcp(db:3306)/halls", "parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("Expected DSN to contain %q, got %q", want, dsn)
		}
	}
}
