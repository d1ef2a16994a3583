package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

func (r *Runner) writeJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit writes v as JSON in --json mode and calls human otherwise.
func (r *Runner) emit(v any, human func()) error {
	if r.options.JSON {
		return r.writeJSON(v)
	}
	human()
	return nil
}

func (r *Runner) table(header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(r.out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func (r *Runner) done(message string) error {
	return r.emit(map[string]string{"result": "ok", "message": message}, func() {
		fmt.Fprintln(r.out, message)
	})
}

func money(d decimal.Decimal) string {
	return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
