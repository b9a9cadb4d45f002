package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	kferrors "github.com/kinforge/kinforge/pkg/errors"
	"github.com/kinforge/kinforge/pkg/familytree"
	"github.com/kinforge/kinforge/pkg/treeio"
)

// treeCommand creates the tree command group for managing the collection.
func (c *CLI) treeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Manage trees in the collection",
	}

	cmd.AddCommand(c.treeInitCommand())
	cmd.AddCommand(c.treeListCommand())
	cmd.AddCommand(c.treeUseCommand())
	cmd.AddCommand(c.treeRmCommand())

	return cmd
}

// treeInitCommand creates a new empty tree and makes it the active one.
func (c *CLI) treeInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init <name>",
		Short: "Create a new empty tree and switch to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			if _, err := s.findTree(name); err == nil {
				return kferrors.New(kferrors.ErrCodeInvalidInput, "tree %q already exists", name)
			}

			t := treeio.NamedTree{
				ID:    uuid.NewString(),
				Name:  name,
				Graph: familytree.NewGraph(),
			}
			s.col.SetTree(t)
			s.col.CurrentTreeID = t.ID
			if err := s.save(ctx); err != nil {
				return err
			}

			printSuccess("Created tree %s", StyleHighlight.Render(name))
			printNextStep("Add a person", appName+" add <first-name>")
			return nil
		},
	}
}

// treeListCommand lists all trees with the active one marked.
func (c *CLI) treeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			if len(s.col.Trees) == 0 {
				printInfo("No trees yet")
				printNextStep("Create one", appName+" tree init <name>")
				return nil
			}

			for _, t := range s.col.Trees {
				marker := "  "
				if t.ID == s.col.CurrentTreeID {
					marker = StyleSuccess.Render("* ")
				}
				fmt.Println(marker + StyleValue.Render(t.Name) + " " +
					StyleDim.Render(fmt.Sprintf("(%d people)", len(t.Graph.People))))
			}
			return nil
		},
	}
}

// treeUseCommand switches the active tree.
func (c *CLI) treeUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Switch the active tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			t, err := s.findTree(args[0])
			if err != nil {
				return err
			}
			s.col.CurrentTreeID = t.ID
			if err := s.save(ctx); err != nil {
				return err
			}
			printSuccess("Switched to %s", StyleHighlight.Render(t.Name))
			return nil
		},
	}
}

// treeRmCommand deletes a tree from the collection.
func (c *CLI) treeRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			t, err := s.findTree(args[0])
			if err != nil {
				return err
			}
			s.col.RemoveTree(t.ID)
			if err := s.save(ctx); err != nil {
				return err
			}
			printSuccess("Deleted tree %s", StyleHighlight.Render(t.Name))
			return nil
		},
	}
}
