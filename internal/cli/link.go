package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	kferrors "github.com/kinforge/kinforge/pkg/errors"
	"github.com/kinforge/kinforge/pkg/familytree"
)

// linkCommand creates the link command for parent-child relationships.
func (c *CLI) linkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "link <parent-id> <child-id>",
		Short: "Link a parent to a child",
		Long: `Link a parent to a child. Both people must already exist.

The link is refused when it would introduce an ancestry cycle, i.e. when
the parent is already a descendant of the child.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			parentID, childID := args[0], args[1]

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			t, err := s.current()
			if err != nil {
				return err
			}
			parent, err := requirePerson(t.Graph, parentID)
			if err != nil {
				return err
			}
			child, err := requirePerson(t.Graph, childID)
			if err != nil {
				return err
			}
			if familytree.IsDescendant(t.Graph, childID, parentID) {
				return kferrors.New(kferrors.ErrCodeInvalidInput,
					"%s is a descendant of %s, linking would create a cycle", parentID, childID)
			}

			t.Graph = familytree.Apply(t.Graph, familytree.LinkParentChild{
				ParentID: parentID,
				ChildID:  childID,
			})
			s.col.SetTree(t)
			if err := s.save(ctx); err != nil {
				return err
			}

			printSuccess("Linked %s %s %s",
				StyleHighlight.Render(describe(parent)),
				StyleDim.Render(iconArrow),
				StyleHighlight.Render(describe(child)))
			return nil
		},
	}
}

// marryCommand creates the marry command for partnerships.
func (c *CLI) marryCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "marry <person-id> <person-id>",
		Short: "Record a partnership between two people",
		Long: `Record a partnership between two people. Both must already exist.

Marrying the same pair again updates the existing partnership (e.g. to set
the marriage date) instead of creating a second one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			aID, bID := args[0], args[1]

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			t, err := s.current()
			if err != nil {
				return err
			}
			a, err := requirePerson(t.Graph, aID)
			if err != nil {
				return err
			}
			b, err := requirePerson(t.Graph, bID)
			if err != nil {
				return err
			}

			// Reuse the union id of an existing partnership between the pair
			// so repeated marry calls stay idempotent.
			unionID := uuid.NewString()
			for _, sp := range a.Partnerships {
				if sp.SpouseID == bID {
					unionID = sp.UnionID
					break
				}
			}

			action := familytree.LinkSpouse{
				PersonID: aID,
				SpouseID: bID,
				UnionID:  unionID,
			}
			if date != "" {
				action.MarriageDate = familytree.StringPtr(date)
				if familytree.NormalizeDate(action.MarriageDate) == nil {
					c.Logger.Warnf("Dropping unparseable marriage date %q", date)
				}
			}

			t.Graph = familytree.Apply(t.Graph, action)
			s.col.SetTree(t)
			if err := s.save(ctx); err != nil {
				return err
			}

			printSuccess("Married %s and %s",
				StyleHighlight.Render(describe(a)),
				StyleHighlight.Render(describe(b)))
			printDetail("union: %s", unionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "marriage date (YYYY-MM-DD)")
	return cmd
}

// parentsCommand creates the parents command for wholesale parent reassignment.
func (c *CLI) parentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parents <child-id> [parent-id...]",
		Short: "Replace a child's parents",
		Long: `Replace a child's parent set wholesale. With no parent ids the child
is detached from all current parents.

Reassignment is refused when any new parent is a descendant of the child,
which would introduce an ancestry cycle.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			childID, parentIDs := args[0], args[1:]

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			t, err := s.current()
			if err != nil {
				return err
			}
			child, err := requirePerson(t.Graph, childID)
			if err != nil {
				return err
			}
			for _, pid := range parentIDs {
				if _, err := requirePerson(t.Graph, pid); err != nil {
					return err
				}
				if familytree.IsDescendant(t.Graph, childID, pid) {
					return kferrors.New(kferrors.ErrCodeInvalidInput,
						"%s is a descendant of %s, reassignment would create a cycle", pid, childID)
				}
			}

			t.Graph = familytree.Apply(t.Graph, familytree.ReassignParents{
				ChildID:   childID,
				ParentIDs: parentIDs,
			})
			s.col.SetTree(t)
			if err := s.save(ctx); err != nil {
				return err
			}

			updated, _ := t.Graph.Person(childID)
			printSuccess("Set %d parent(s) for %s", len(updated.Parents), StyleHighlight.Render(describe(child)))
			return nil
		},
	}
}

// rootPersonCommand creates the root command for moving the root pointer.
func (c *CLI) rootPersonCommand() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "root [person-id]",
		Short: "Set or clear the root person of the active tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			t, err := s.current()
			if err != nil {
				return err
			}

			var action familytree.SetRootPerson
			switch {
			case clear:
				// nil root id clears the pointer
			case len(args) == 1:
				p, err := requirePerson(t.Graph, args[0])
				if err != nil {
					return err
				}
				action.RootID = &p.ID
			default:
				if t.Graph.RootPersonID == nil {
					printInfo("No root person set")
					return nil
				}
				root, _ := t.Graph.Person(*t.Graph.RootPersonID)
				printKeyValue("root", describe(root))
				return nil
			}

			t.Graph = familytree.Apply(t.Graph, action)
			s.col.SetTree(t)
			if err := s.save(ctx); err != nil {
				return err
			}

			if clear {
				printSuccess("Cleared root person")
			} else {
				printSuccess("Root is now %s", StyleHighlight.Render(args[0]))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "clear the root person")
	return cmd
}

// checkCommand creates the check command running the consistency validator.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the active tree for consistency issues",
		Long: `Check the active tree for consistency issues such as dangling
references or one-sided partnerships. Issues are advisory; the tree keeps
working either way.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			t, err := s.current()
			if err != nil {
				return err
			}

			issues := familytree.Validate(t.Graph)
			if len(issues) == 0 {
				printSuccess("No issues found in %s", StyleHighlight.Render(t.Name))
				return nil
			}
			printWarning("%d issue(s) found in %s", len(issues), t.Name)
			for _, issue := range issues {
				printDetail("%s", issue.String())
			}
			return nil
		},
	}
}
