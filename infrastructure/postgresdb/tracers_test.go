package postgresdb

import "testing"

func TestPrettyPrintSQL(t *testing.T) {
	in := `SELECT id, title
		FROM todos
		WHERE id IN (
			@a, @b
		)
		ORDER BY created_at DESC`

	want := "SELECT id, title FROM todos WHERE id IN(@a, @b)ORDER BY created_at DESC"
	if got := prettyPrintSQL(in); got != want {
		t.Errorf("prettyPrintSQL() = %q, want %q", got, want)
	}
}
