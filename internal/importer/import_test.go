package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/geck-tools/geck/internal/models"
)

func newTestImporter(t *testing.T) *Importer {
	t.Helper()
	return New(models.NewContextStore(), models.NewProgramStore(), models.NewUserStore(), t.TempDir(), nil)
}

func discard(string) {}

func TestImportFile_CreateThenUpdate(t *testing.T) {
	im := newTestImporter(t)

	def := []byte("kind: customer_context\nname: acme-prod\ncustomer: Acme\nindustry: Travel\ncapabilities:\n- search\n- booking\n")
	action, err := im.ImportFile(KindContext, "acme.yaml", def)
	if err != nil {
		t.Fatalf("ImportFile returned error: %v", err)
	}
	if action != ActionCreated {
		t.Errorf("action = %q, want created", action)
	}

	created := im.Contexts.FindByName("acme-prod")
	if created == nil {
		t.Fatal("context was not created")
	}
	if created.Status != "active" {
		t.Errorf("default status = %q, want active", created.Status)
	}
	if len(created.Capabilities) != 2 || created.Capabilities[0] != "search" {
		t.Errorf("capabilities = %v", created.Capabilities)
	}

	// Same name again: update, same ID
	def2 := []byte("kind: customer_context\nname: acme-prod\ncustomer: Acme Corp\nindustry: Finance\n")
	action, err = im.ImportFile(KindContext, "acme.yaml", def2)
	if err != nil {
		t.Fatalf("second ImportFile returned error: %v", err)
	}
	if action != ActionUpdated {
		t.Errorf("action = %q, want updated", action)
	}
	updated := im.Contexts.FindByName("acme-prod")
	if updated.ID != created.ID {
		t.Error("update must not change the resource ID")
	}
	if updated.Industry != "Finance" {
		t.Errorf("industry = %q, want Finance", updated.Industry)
	}
}

func TestImportFile_Errors(t *testing.T) {
	im := newTestImporter(t)

	tests := []struct {
		name    string
		kind    string
		content string
	}{
		{"empty file", KindContext, "   \n"},
		{"broken yaml", KindContext, "kind: [unclosed\n"},
		{"missing name", KindContext, "kind: customer_context\ncustomer: Acme\n"},
		{"user missing email", KindUser, "kind: user\nname: alex\n"},
		{"unknown kind", "widget", "name: x\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := im.ImportFile(tc.kind, "bad.yaml", []byte(tc.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestImportFile_UpdateKeepsReadersStable(t *testing.T) {
	im := newTestImporter(t)
	im.ImportFile(KindContext, "acme.yaml", []byte("kind: customer_context\nname: acme-prod\nindustry: Travel\n"))

	// A pointer obtained before the update must keep its old values; the
	// update swaps in a clone rather than mutating the stored struct,
	// which a concurrent list serialization may be reading.
	held := im.Contexts.FindByName("acme-prod")
	im.ImportFile(KindContext, "acme.yaml", []byte("kind: customer_context\nname: acme-prod\nindustry: Finance\n"))

	if held.Industry != "Travel" {
		t.Errorf("held pointer industry = %q, want Travel", held.Industry)
	}
	current := im.Contexts.FindByName("acme-prod")
	if current.Industry != "Finance" {
		t.Errorf("stored industry = %q, want Finance", current.Industry)
	}
	if current.ID != held.ID {
		t.Error("update must not change the resource ID")
	}
}

func TestImportFile_UserEmailConflict(t *testing.T) {
	im := newTestImporter(t)
	im.Users.Create(&models.User{Name: "alex", Email: "alex@example.com", Role: "admin", Active: true})

	// Different user, same email
	_, err := im.ImportFile(KindUser, "sam.yaml", []byte("kind: user\nname: sam\nemail: alex@example.com\n"))
	if err == nil || !strings.Contains(err.Error(), "already belongs") {
		t.Errorf("expected email conflict error, got %v", err)
	}

	// Same user keeps their email
	action, err := im.ImportFile(KindUser, "alex.yaml", []byte("kind: user\nname: alex\nemail: alex@example.com\nrole: editor\n"))
	if err != nil {
		t.Fatalf("ImportFile returned error: %v", err)
	}
	if action != ActionUpdated {
		t.Errorf("action = %q, want updated", action)
	}
	if im.Users.FindByName("alex").Role != "editor" {
		t.Error("role was not updated")
	}
}

func TestBulkImport(t *testing.T) {
	im := newTestImporter(t)

	files := map[string]string{
		"a_ctx.yaml":   "kind: customer_context\nname: acme-prod\ncustomer: Acme\n",
		"b_ctx.yml":    "kind: customer_context\nname: globex\ncustomer: Globex\n",
		"broken.yaml":  "kind: customer_context\ncustomer: no-name\n",
		"program.yaml": "kind: program_config\nname: miles\nvendor: ACME Air\n",
		"notes.txt":    "not a definition",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(im.Dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Pre-create one so the bulk run updates it
	im.ImportFile(KindContext, "seed", []byte("kind: customer_context\nname: globex\n"))

	var lines []string
	result, err := im.BulkImport(KindContext, func(l string) { lines = append(lines, l) })
	if err != nil {
		t.Fatalf("BulkImport returned error: %v", err)
	}

	s := result.Summary
	if s.Total != 5 || s.Imported != 1 || s.Updated != 1 || s.Failed != 1 || s.Skipped != 2 {
		t.Errorf("Summary = %+v, want {5 1 1 1 2}", s)
	}
	if got := result.Details[models.OutcomeImported]; len(got) != 1 || got[0] != "a_ctx.yaml" {
		t.Errorf("Details[imported] = %v", got)
	}
	if got := result.Details[models.OutcomeUpdated]; len(got) != 1 || got[0] != "b_ctx.yml" {
		t.Errorf("Details[updated] = %v", got)
	}
	if got := result.Details[models.OutcomeFailed]; len(got) != 1 || got[0] != "broken.yaml" {
		t.Errorf("Details[failed] = %v", got)
	}
	if len(lines) == 0 {
		t.Error("BulkImport produced no log lines")
	}
}

func TestSeed_MultiDocument(t *testing.T) {
	im := newTestImporter(t)
	seed := "kind: customer_context\nname: acme-prod\ncustomer: Acme\n" +
		"---\n" +
		"kind: program_config\nname: miles\nvendor: ACME Air\n" +
		"---\n" +
		"kind: user\nname: alex\nemail: alex@example.com\nrole: admin\n" +
		"---\n" +
		"name: no-kind-here\n"
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := im.Seed(path, discard)
	if err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	s := result.Summary
	if s.Total != 4 || s.Imported != 3 || s.Failed != 1 {
		t.Errorf("Summary = %+v, want {4 3 0 1 0}", s)
	}
	if im.Contexts.FindByName("acme-prod") == nil {
		t.Error("seed did not create the context")
	}
	if im.Programs.FindByName("miles") == nil {
		t.Error("seed did not create the program")
	}
	if u := im.Users.FindByName("alex"); u == nil || u.Role != "admin" {
		t.Errorf("seed user = %v", u)
	}
}

func TestBulkImport_MissingDir(t *testing.T) {
	im := New(models.NewContextStore(), models.NewProgramStore(), models.NewUserStore(), "/nonexistent/geck-defs", nil)
	if _, err := im.BulkImport(KindContext, discard); err == nil {
		t.Error("expected an error for an unreadable directory")
	}
}
