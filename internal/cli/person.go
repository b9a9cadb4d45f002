package cli

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kinforge/kinforge/pkg/familytree"
)

// addOpts holds the command-line flags for the add command.
type addOpts struct {
	id         string // explicit person id (generated if empty)
	birth      string // birth date, YYYY-MM-DD
	death      string // death date, YYYY-MM-DD
	birthPlace string
	deathPlace string
	gender     string
	notes      string
}

// addCommand creates the add command for inserting a person into the active tree.
func (c *CLI) addCommand() *cobra.Command {
	var opts addOpts

	cmd := &cobra.Command{
		Use:   "add <first-name> [last-name]",
		Short: "Add a person to the active tree",
		Long: `Add a person to the active tree.

Dates are normalized to YYYY-MM-DD; values that do not parse are dropped
with a warning. The first person added to an empty tree becomes the root.

Examples:
  kinforge add Ada Lovelace --birth 1815-12-10
  kinforge add Byron --id byron --notes "poet"`,
		Args: cobra.RangeArgs(1, 2),
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

			id := opts.id
			if id == "" {
				id = uuid.NewString()
			}
			if _, exists := t.Graph.Person(id); exists {
				printWarning("Replacing existing person %s", id)
			}

			p := familytree.Person{
				ID:         id,
				FirstName:  args[0],
				BirthPlace: opts.birthPlace,
				DeathPlace: opts.deathPlace,
				Gender:     opts.gender,
				Notes:      opts.notes,
			}
			if len(args) == 2 {
				p.LastName = args[1]
			}
			if opts.birth != "" {
				p.BirthDate = familytree.StringPtr(opts.birth)
			}
			if opts.death != "" {
				p.DeathDate = familytree.StringPtr(opts.death)
			}
			warnDroppedDates(c, p)

			t.Graph = familytree.Apply(t.Graph, familytree.UpsertPerson{Person: p})
			if t.Graph.RootPersonID == nil {
				t.Graph = familytree.Apply(t.Graph, familytree.SetRootPerson{RootID: &id})
			}
			s.col.SetTree(t)
			if err := s.save(ctx); err != nil {
				return err
			}

			added, _ := t.Graph.Person(id)
			printSuccess("Added %s", StyleHighlight.Render(describe(added)))
			printDetail("id: %s", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.id, "id", "", "person id (generated if empty)")
	cmd.Flags().StringVar(&opts.birth, "birth", "", "birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.death, "death", "", "death date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.birthPlace, "birth-place", "", "birth place")
	cmd.Flags().StringVar(&opts.deathPlace, "death-place", "", "death place")
	cmd.Flags().StringVar(&opts.gender, "gender", "", "gender")
	cmd.Flags().StringVar(&opts.notes, "notes", "", "free-form notes")

	return cmd
}

// warnDroppedDates warns about date flags that sanitization will discard.
func warnDroppedDates(c *CLI, p familytree.Person) {
	if p.BirthDate != nil && familytree.NormalizeDate(p.BirthDate) == nil {
		c.Logger.Warnf("Dropping unparseable birth date %q", *p.BirthDate)
	}
	if p.DeathDate != nil && familytree.NormalizeDate(p.DeathDate) == nil {
		c.Logger.Warnf("Dropping unparseable death date %q", *p.DeathDate)
	}
}

// rmCommand creates the rm command for deleting a person.
func (c *CLI) rmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <person-id>",
		Short: "Delete a person from the active tree",
		Long: `Delete a person from the active tree.

All links pointing at the person are removed from the remaining people.
If the deleted person was the root, a new root is promoted automatically.`,
		Args: cobra.ExactArgs(1),
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
			p, err := requirePerson(t.Graph, args[0])
			if err != nil {
				return err
			}

			t.Graph = familytree.Apply(t.Graph, familytree.DeletePerson{PersonID: args[0]})
			s.col.SetTree(t)
			if err := s.save(ctx); err != nil {
				return err
			}

			printSuccess("Deleted %s", StyleHighlight.Render(describe(p)))
			if t.Graph.RootPersonID != nil {
				if root, ok := t.Graph.Person(*t.Graph.RootPersonID); ok {
					printDetail("root: %s", describe(root))
				}
			}
			return nil
		},
	}
}

// showCommand creates the show command for inspecting a person or the tree.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [person-id]",
		Short: "Show a person, or the active tree when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			t, err := s.current()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return showTree(t.Name, t.Graph)
			}

			p, err := requirePerson(t.Graph, args[0])
			if err != nil {
				return err
			}
			showPerson(t.Graph, p)
			return nil
		},
	}
}

func showTree(name string, g familytree.TreeGraph) error {
	printKeyValue("tree", name)
	printKeyValue("people", strconv.Itoa(len(g.People)))
	if g.RootPersonID != nil {
		if root, ok := g.Person(*g.RootPersonID); ok {
			printKeyValue("root", describe(root))
		}
	}
	printNewline()
	for _, id := range g.SortedIDs() {
		p, _ := g.Person(id)
		printDetail("%s  %s", id, describe(p))
	}
	return nil
}

func showPerson(g familytree.TreeGraph, p familytree.Person) {
	printKeyValue("id", p.ID)
	printKeyValue("name", p.DisplayName())
	if span := lifespanText(p); span != "" {
		printKeyValue("lifespan", span)
	}
	if p.BirthPlace != "" {
		printKeyValue("born in", p.BirthPlace)
	}
	if p.DeathPlace != "" {
		printKeyValue("died in", p.DeathPlace)
	}
	if p.Gender != "" {
		printKeyValue("gender", p.Gender)
	}
	if p.Notes != "" {
		printKeyValue("notes", p.Notes)
	}
	printKeyValue("parents", describeAll(g, p.Parents))
	printKeyValue("children", describeAll(g, p.Children))
	for _, sp := range p.Partnerships {
		label := "partner"
		if sp.MarriageDate != nil {
			label = "married"
		}
		if other, ok := g.Person(sp.SpouseID); ok {
			printKeyValue(label, describe(other))
		}
	}
}

func describeAll(g familytree.TreeGraph, ids []string) string {
	if len(ids) == 0 {
		return "—"
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if p, ok := g.Person(id); ok {
			parts = append(parts, describe(p))
		}
	}
	return strings.Join(parts, ", ")
}
