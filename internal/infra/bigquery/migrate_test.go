package bigquery

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func TestMigrationFilenamePattern(t *testing.T) {
	tests := []struct {
		filename string
		valid    bool
		version  string
		name     string
	}{
		{"0001_create_model_outputs.sql", true, "0001", "create_model_outputs"},
		{"001_invalid.sql", false, "", ""},
		{"0001_test", false, "", ""},
		{"0001.sql", false, "", ""},
		{"invalid_0001_test.sql", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			m := migrationPattern.FindStringSubmatch(tt.filename)
			if (m != nil) != tt.valid {
				t.Fatalf("match = %v, want valid %v", m, tt.valid)
			}
			if tt.valid && (m[1] != tt.version || m[2] != tt.name) {
				t.Errorf("got version %q name %q, want %q %q", m[1], m[2], tt.version, tt.name)
			}
		})
	}
}

func TestReadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b.sql":   {Data: []byte("CREATE TABLE `{{PROJECT_ID}}.{{DATASET_ID}}.b` (id INT64)")},
		"0001_a.sql":   {Data: []byte("CREATE TABLE `{{PROJECT_ID}}.{{DATASET_ID}}.a` (id INT64)")},
		"README.md":    {Data: []byte("not a migration")},
		"sub/0003.sql": {Data: []byte("ignored")},
	}
	ref := TableRef{ProjectID: "proj", DatasetID: "budget"}

	got, err := ReadMigrations(fsys, ref, zerolog.Nop())
	if err != nil {
		t.Fatalf("ReadMigrations failed: %v", err)
	}
	if len(got) != 2 || got[0].Version != 1 || got[1].Version != 2 {
		t.Fatalf("unexpected migrations: %+v", got)
	}
	if got[0].SQL != "CREATE TABLE `proj.budget.a` (id INT64)" {
		t.Errorf("SQL = %q", got[0].SQL)
	}

	// Checksum ignores the dataset the migration is applied to
	other, _ := ReadMigrations(fsys, TableRef{ProjectID: "x", DatasetID: "y"}, zerolog.Nop())
	if other[0].Checksum != got[0].Checksum {
		t.Error("checksum must not depend on project or dataset")
	}
}

func TestReadMigrations_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"0001_a.sql": {Data: []byte("a")},
		"0001_b.sql": {Data: []byte("b")},
	}
	_, err := ReadMigrations(fsys, TableRef{ProjectID: "p", DatasetID: "d"}, zerolog.Nop())
	if err == nil || !strings.Contains(err.Error(), "0001") {
		t.Errorf("err = %v, want duplicate version error", err)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	got, err := ReadMigrations(Migrations(), TableRef{ProjectID: "p", DatasetID: "d"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("ReadMigrations failed: %v", err)
	}

	var names []string
	for _, m := range got {
		names = append(names, m.Name)
		if strings.Contains(m.SQL, "{{") {
			t.Errorf("%s still has placeholders", m.Filename)
		}
	}
	want := []string{"create_model_outputs", "create_category_snapshots"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("embedded migrations mismatch (-want +got):\n%s", diff)
	}
}

func TestPending(t *testing.T) {
	all := []Migration{
		{Version: 1, Name: "a", Checksum: "c1"},
		{Version: 2, Name: "b", Checksum: "c2"},
	}

	tests := []struct {
		name    string
		applied []AppliedMigration
		want    []int
		wantErr bool
	}{
		{name: "fresh dataset", want: []int{1, 2}},
		{name: "first applied", applied: []AppliedMigration{{Version: 1, Checksum: "c1"}}, want: []int{2}},
		{name: "all applied", applied: []AppliedMigration{{Version: 1, Checksum: "c1"}, {Version: 2, Checksum: "c2"}}},
		{name: "legacy row without checksum", applied: []AppliedMigration{{Version: 1}}, want: []int{2}},
		{name: "edited after apply", applied: []AppliedMigration{{Version: 1, Checksum: "old"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pending, err := Pending(all, tt.applied)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Pending() error = %v, wantErr %v", err, tt.wantErr)
			}
			var versions []int
			for _, m := range pending {
				versions = append(versions, m.Version)
			}
			if diff := cmp.Diff(tt.want, versions); diff != "" {
				t.Errorf("Pending() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
