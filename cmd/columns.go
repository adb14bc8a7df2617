package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/ivc/internal/core/services"
	"github.com/kamal-hamza/ivc/pkg/ui"
)

var columnsCmd = &cobra.Command{
	Use:     "columns FILE|DIR...",
	Aliases: []string{"cols"},
	Short:   "List every column found across files (alias: cols)",
	Long: `List the union of column names across all files, sorted, with a mark
for each file that carries the column.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runColumns,
}

func runColumns(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)

	files, err := fileSource.Load(ctx, args)
	if err != nil {
		return err
	}

	loaded, err := loadService.Execute(ctx, services.LoadRequest{Files: files})
	if err != nil {
		return err
	}

	names := make([]string, len(loaded.Tables))
	for i, t := range loaded.Tables {
		names[i] = t.Name
	}

	table := &ui.PresenceTable{
		Files:   names,
		Columns: loaded.Columns,
		Has: func(file, column int) bool {
			return loaded.Tables[file].HasColumn(loaded.Columns[column])
		},
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("%d columns in %d files", len(loaded.Columns), len(loaded.Tables))))
	fmt.Println()
	fmt.Print(table.Render())
	printDiagnostics(loaded.Diagnostics)

	return nil
}
