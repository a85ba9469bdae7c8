package services

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"content-protect-assistant/models"
)

// PromptComposer renders an AdminContext into the system prompt sent to the
// gateway. The optional reference document is read once at construction so
// Compose stays a pure function of its input: identical context in,
// byte-identical prompt out.
type PromptComposer struct {
	reference string
}

func NewPromptComposer(referenceDocPath string) *PromptComposer {
	reference := ""
	if referenceDocPath != "" {
		if data, err := os.ReadFile(referenceDocPath); err == nil {
			reference = string(data)
		}
	}
	return &PromptComposer{reference: reference}
}

func (p *PromptComposer) Compose(ctx *models.AdminContext) string {
	stats := ctx.Plugin.Stats

	var b strings.Builder

	b.WriteString("# Content Protect - AI Admin Assistant\n\n")
	b.WriteString("## YOUR ROLE\n")
	b.WriteString("You are the AI assistant helping manage the Content Protect platform.\n\n")
	fmt.Fprintf(&b, "**ADMIN MODE**: Speaking to %s with FULL SYSTEM ACCESS.\n\n", ctx.User.Name)

	b.WriteString("## LIVE SYSTEM STATE\n\n")
	b.WriteString("### Statistics\n")
	fmt.Fprintf(&b, "- Active Codes: %d / %d\n", stats.ActiveCodes, stats.TotalCodes)
	fmt.Fprintf(&b, "- Protected Videos: %d\n", stats.ProtectedVideos)
	fmt.Fprintf(&b, "- Active Sessions: %d\n", stats.ActiveSessions)
	fmt.Fprintf(&b, "- Total Redemptions: %d\n\n", stats.TotalRedemptions)

	b.WriteString("### Integrations\n")
	for _, name := range sortedKeys(ctx.Plugin.ActiveIntegrations) {
		icon := "❌"
		if ctx.Plugin.ActiveIntegrations[name] {
			icon = "✅"
		}
		fmt.Fprintf(&b, "- %s %s\n", icon, integrationLabel(name))
	}
	b.WriteString("\n")

	b.WriteString("### Files (includes/)\n")
	for _, file := range ctx.Plugin.FileStructure["includes"] {
		fmt.Fprintf(&b, "- `%s`\n", file)
	}
	b.WriteString("\n")

	if len(ctx.RecentActivity.Errors) > 0 {
		b.WriteString("### ⚠️ RECENT ERRORS\n")
		for _, entry := range ctx.RecentActivity.Errors {
			fmt.Fprintf(&b, "- [%s] %s\n", entry.Time, entry.Type)
		}
		b.WriteString("\n")
	}

	b.WriteString("## YOUR CAPABILITIES\n")
	b.WriteString("- Explain gift code, session and video protection behaviour\n")
	b.WriteString("- Generate queries against the platform tables\n")
	b.WriteString("- Debug Presto Player integration\n")
	b.WriteString("- Analyze analytics data\n")
	b.WriteString("- Provide file paths and security checks\n\n")

	if p.reference != "" {
		b.WriteString("## FULL ARCHITECTURE\n\n")
		b.WriteString(p.reference)
		b.WriteString("\n\n")
	}

	b.WriteString("Now help with the admin's question using this context.\n")

	return b.String()
}

// integrationLabel turns "presto_player" into "Presto player"
func integrationLabel(name string) string {
	label := strings.ReplaceAll(name, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
