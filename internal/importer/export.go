package importer

import (
	"fmt"
	"strings"

	"github.com/geck-tools/geck/internal/models"
)

// Resource kind keys. Also used as export filenames: <kind>.yaml.
const (
	KindContext = "customer_context"
	KindProgram = "program_config"
	KindUser    = "user"
)

// ExportFilename returns the download filename for a resource kind.
func ExportFilename(kind string) string {
	return kind + ".yaml"
}

// The export format is a literal template, not a serializer round-trip.
// Unset fields render as an empty value after the colon; callers that need
// strict output should validate the resource before exporting.

// ContextText renders a customer context as definition-file text.
func ContextText(c *models.CustomerContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "kind: %s\n", KindContext)
	fmt.Fprintf(&b, "name: %s\n", c.Name)
	fmt.Fprintf(&b, "customer: %s\n", c.CustomerName)
	fmt.Fprintf(&b, "industry: %s\n", c.Industry)
	fmt.Fprintf(&b, "entity: %s\n", c.Entity)
	fmt.Fprintf(&b, "status: %s\n", c.Status)
	writeCapabilities(&b, c.Capabilities)
	return b.String()
}

// ProgramText renders a program config as definition-file text.
func ProgramText(p *models.ProgramConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "kind: %s\n", KindProgram)
	fmt.Fprintf(&b, "name: %s\n", p.Name)
	fmt.Fprintf(&b, "vendor: %s\n", p.Vendor)
	fmt.Fprintf(&b, "type: %s\n", p.Type)
	fmt.Fprintf(&b, "api_type: %s\n", p.APIType)
	fmt.Fprintf(&b, "status: %s\n", p.Status)
	writeCapabilities(&b, p.Capabilities)
	return b.String()
}

// UserText renders a user as definition-file text. Passwords are never
// exported.
func UserText(u *models.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "kind: %s\n", KindUser)
	fmt.Fprintf(&b, "name: %s\n", u.Name)
	fmt.Fprintf(&b, "email: %s\n", u.Email)
	fmt.Fprintf(&b, "role: %s\n", u.Role)
	fmt.Fprintf(&b, "active: %t\n", u.Active)
	return b.String()
}

func writeCapabilities(b *strings.Builder, caps []string) {
	if len(caps) == 0 {
		b.WriteString("capabilities: []\n")
		return
	}
	b.WriteString("capabilities:\n")
	for _, c := range caps {
		fmt.Fprintf(b, "- %s\n", c)
	}
}
