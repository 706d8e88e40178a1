package export

import (
	"fmt"
	"strings"
)

// quote renders a free-text CSV field: always wrapped in double quotes with
// embedded quotes doubled.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func percent2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func seconds2(ms int64) string {
	return fmt.Sprintf("%.2f", float64(ms)/1000)
}

// csvBuilder accumulates CSV lines. Callers quote free-text fields themselves.
type csvBuilder struct {
	lines []string
}

func (b *csvBuilder) row(fields ...string) {
	b.lines = append(b.lines, strings.Join(fields, ","))
}

func (b *csvBuilder) blank() {
	b.lines = append(b.lines, "")
}

func (b *csvBuilder) String() string {
	return strings.Join(b.lines, "\n") + "\n"
}
