package commands

import (
	"encoding/json"
	"time"

	"github.com/metaview-labs/metaview/internal/cli/output"
	"github.com/metaview-labs/metaview/internal/cms"
	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <type> <id>",
		Short: "Show a single metaobject with its fields",
		Long: `Show one metaobject: its type, timestamps, and every field with the
field definition's name and declared type.

The id is the numeric part of the metaobject's global id, or the full
gid://shopify/Metaobject/... value. The type names the list to return to
and is not sent upstream; a mismatch with the entry's type is logged.`,
		Example: `  metaview show book 123456789 --shop demo.myshopify.com
  metaview show book gid://shopify/Metaobject/123456789 --output json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], args[1])
		},
	}
}

func runShow(cmd *cobra.Command, typ, id string) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	q, cleanup, err := cmdCtx.Querier(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	view, err := cms.LoadDetail(ctx, q, id)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	entry := view.Entry
	if entry.Type != typ {
		cmdCtx.Logger.Warn("entry type differs from requested type", "id", entry.ID, "type", entry.Type, "requested", typ)
	}

	r.Header(1, entry.Handle)
	r.Println("")
	r.Header(2, "Details")
	r.KeyValue("Type", entry.Type)
	r.KeyValue("Created", entry.CreatedAt.UTC().Format(time.RFC3339))
	r.KeyValue("Updated", entry.UpdatedAt.UTC().Format(time.RFC3339))
	r.Println("")
	r.Header(2, "Fields")

	rows := make([][]string, len(view.Fields))
	for i, f := range view.Fields {
		rows[i] = []string{f.Label, f.DeclaredType, f.Value}
	}
	r.Table([]string{"Field", "Type", "Value"}, rows)

	r.Println("")
	back := "metaview list " + typ
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatKeyValue("Back", back))
	} else {
		r.Muted("Back: " + back)
	}
	return nil
}
