package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"content-protect-assistant/models"
)

func sampleContext() *models.AdminContext {
	return &models.AdminContext{
		Role: "admin",
		User: models.UserInfo{ID: "7", Name: "Ada", Email: "ada@example.com"},
		Plugin: models.PluginInfo{
			Version: "3.1.0",
			ActiveIntegrations: map[string]bool{
				"presto_player": true,
				"analytics":     false,
				"gateway":       true,
			},
			FileStructure: map[string][]string{
				"includes": {"codes.go", "sessions.go"},
			},
			Stats: models.Stats{
				ActiveCodes:      3,
				TotalCodes:       10,
				ProtectedVideos:  2,
				ActiveSessions:   1,
				TotalRedemptions: 42,
			},
		},
	}
}

func TestComposeDeterministic(t *testing.T) {
	composer := NewPromptComposer("")
	ctx := sampleContext()

	first := composer.Compose(ctx)
	second := composer.Compose(ctx)

	if first != second {
		t.Fatalf("Compose is not deterministic for identical input")
	}
}

func TestComposeSections(t *testing.T) {
	composer := NewPromptComposer("")
	prompt := composer.Compose(sampleContext())

	for _, want := range []string{
		"## YOUR ROLE",
		"Speaking to Ada",
		"- Active Codes: 3 / 10",
		"- Protected Videos: 2",
		"- Active Sessions: 1",
		"- Total Redemptions: 42",
		"✅ Presto player",
		"❌ Analytics",
		"✅ Gateway",
		"- `codes.go`",
		"- `sessions.go`",
		"## YOUR CAPABILITIES",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if strings.Contains(prompt, "RECENT ERRORS") {
		t.Errorf("errors section present despite empty error list")
	}
}

func TestComposeRecentErrors(t *testing.T) {
	composer := NewPromptComposer("")
	ctx := sampleContext()
	ctx.RecentActivity.Errors = []models.ErrorEntry{
		{Time: "5 minutes ago", Type: "validation_failed"},
	}

	prompt := composer.Compose(ctx)

	if !strings.Contains(prompt, "RECENT ERRORS") {
		t.Fatalf("errors section missing")
	}
	if !strings.Contains(prompt, "- [5 minutes ago] validation_failed") {
		t.Errorf("error entry not rendered")
	}
}

func TestComposeReferenceDoc(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reference.md")
	if err := os.WriteFile(path, []byte("module layout notes"), 0o644); err != nil {
		t.Fatal(err)
	}

	withDoc := NewPromptComposer(path).Compose(sampleContext())
	if !strings.Contains(withDoc, "## FULL ARCHITECTURE") {
		t.Errorf("architecture section missing when reference doc exists")
	}
	if !strings.Contains(withDoc, "module layout notes") {
		t.Errorf("reference content not appended")
	}

	// A missing file is silently omitted, never an error
	withoutDoc := NewPromptComposer(filepath.Join(dir, "missing.md")).Compose(sampleContext())
	if strings.Contains(withoutDoc, "## FULL ARCHITECTURE") {
		t.Errorf("architecture section present despite missing reference doc")
	}
}
