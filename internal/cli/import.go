package cli

import (
	"github.com/spf13/cobra"

	"github.com/kinforge/kinforge/pkg/familytree"
	"github.com/kinforge/kinforge/pkg/treeio"
)

// importCommand creates the import command for loading a graph file into the
// active tree.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the active tree with a graph from a JSON file",
		Long: `Replace the active tree with a graph from a JSON file.

The file holds a single graph in the wire format produced by export:

  {"rootPersonId": "...", "people": {...}}

Every person in the file is sanitized on import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			g, err := treeio.ReadGraphFile(args[0])
			if err != nil {
				return err
			}

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			t, err := s.current()
			if err != nil {
				return err
			}

			t.Graph = familytree.Apply(t.Graph, familytree.ReplaceGraph{Graph: g})
			// Re-sanitize each person so hand-edited files get the same
			// normalization as interactive edits.
			for _, id := range t.Graph.SortedIDs() {
				p, _ := t.Graph.Person(id)
				t.Graph = familytree.Apply(t.Graph, familytree.UpsertPerson{Person: p})
			}
			s.col.SetTree(t)
			if err := s.save(ctx); err != nil {
				return err
			}

			printSuccess("Imported %d people into %s", len(t.Graph.People), StyleHighlight.Render(t.Name))
			return nil
		},
	}
}

// exportCommand creates the export command for writing the active tree's
// graph to a JSON file.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active tree's graph as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			t, err := s.current()
			if err != nil {
				return err
			}

			out, err := openOutput(output)
			if err != nil {
				return err
			}
			defer out.Close()
			if err := treeio.WriteGraph(t.Graph, out); err != nil {
				return err
			}

			if output != "" {
				printSuccess("Exported %s", StyleHighlight.Render(t.Name))
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
