package commands

import (
	"encoding/json"
	"fmt"

	"github.com/metaview-labs/metaview/internal/cli/output"
	"github.com/metaview-labs/metaview/internal/cms"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var cursor string

	cmd := &cobra.Command{
		Use:   "list <type>",
		Short: "List one page of metaobjects of a type",
		Long: `List up to 10 metaobjects of a type as a table, one column per field
definition. Fields an entry does not set are left blank.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # First page of the "book" type
  metaview list book --shop demo.myshopify.com

  # Next page, using the cursor printed by the previous call
  metaview list book --cursor eyJsYXN0X2lkIjo...

  # As JSON
  metaview list book --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0], cursor)
		},
	}

	cmd.Flags().StringVar(&cursor, "cursor", "", "Page cursor from a previous list")

	return cmd
}

func runList(cmd *cobra.Command, typ, cursor string) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	q, cleanup, err := cmdCtx.Querier(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	table, err := cms.LoadList(ctx, q, typ, cursor)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listJSON(r, table)
	default:
		listTable(r, table)
		return nil
	}
}

// listTable prints the table in text or markdown mode.
func listTable(r *output.Renderer, table *cms.Table) {
	r.Header(1, fmt.Sprintf("%s Metaobjects", table.Type))
	r.Println("")

	if len(table.Rows) == 0 {
		r.Println("No metaobjects found for type: " + table.Type)
		return
	}

	headers := append([]string{"Handle"}, table.Headings()...)
	rows := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		rows[i] = append([]string{row.Handle}, row.Values...)
	}
	r.Table(headers, rows)

	if table.HasNext {
		r.Println("")
		if r.EffectiveMode() == output.ModeMarkdown {
			r.Println(output.FormatKeyValue("Next cursor", table.NextCursor))
		} else {
			r.Muted(fmt.Sprintf("Next page: metaview list %s --cursor %s", table.Type, table.NextCursor))
		}
	}
}

// listJSON prints the projected page.
func listJSON(r *output.Renderer, table *cms.Table) error {
	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(table)
}
