// Package cli implements the kinforge command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kinforge/kinforge/pkg/buildinfo"
	"github.com/kinforge/kinforge/pkg/cache"
	"github.com/kinforge/kinforge/pkg/config"
	kferrors "github.com/kinforge/kinforge/pkg/errors"
	"github.com/kinforge/kinforge/pkg/familytree"
	"github.com/kinforge/kinforge/pkg/treeio"
	"github.com/kinforge/kinforge/pkg/treestore"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "kinforge"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string // --config override, empty means config.DefaultPath
	dataPath   string // --data override, empty means config value or store default
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Kinforge builds and renders family trees",
		Long:         `Kinforge is a CLI tool for building family trees as graphs of people, partnerships and parent-child links, and rendering them as deterministic generational diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}
	// Current field values as defaults so pre-configured paths survive
	// flag registration.
	root.PersistentFlags().StringVar(&c.configPath, "config", c.configPath, "config file (default ~/.config/kinforge/config.toml)")
	root.PersistentFlags().StringVar(&c.dataPath, "data", c.dataPath, "tree collection file (default ~/.config/kinforge/trees.json)")

	// Register all subcommands
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.rmCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.linkCommand())
	root.AddCommand(c.marryCommand())
	root.AddCommand(c.parentsCommand())
	root.AddCommand(c.rootPersonCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config, Store and Cache Factories
// =============================================================================

// loadConfig reads the config file, falling back to defaults when missing.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(path)
}

// openStore creates the file-backed tree store used by CLI commands. The
// --data flag wins over the config value.
func (c *CLI) openStore(cfg config.Config) (treestore.Store, error) {
	path := c.dataPath
	if path == "" {
		path = cfg.DataPath
	}
	return treestore.NewFileStore(path)
}

// openCache creates the layout cache selected by the config. A cache that
// cannot be created degrades to the null cache so commands keep working.
func (c *CLI) openCache(ctx context.Context, cfg config.Config) cache.Cache {
	switch cfg.CacheBackend {
	case config.CacheBackendNone:
		return cache.NewNullCache()
	case config.CacheBackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, appName)
		if err != nil {
			c.Logger.Warnf("Redis cache unavailable, caching disabled: %v", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		dir := cfg.CacheDir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return cache.NewNullCache()
			}
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warnf("File cache unavailable, caching disabled: %v", err)
			return cache.NewNullCache()
		}
		return fc
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/kinforge/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Session - Collection Access for Commands
// =============================================================================

// session bundles the loaded collection with the store it came from.
type session struct {
	store treestore.Store
	col   treeio.Collection
}

// openSession loads the collection from the configured store.
func (c *CLI) openSession(ctx context.Context) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.openStore(cfg)
	if err != nil {
		return nil, err
	}
	col, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &session{store: store, col: col}, nil
}

// current returns the active tree, or a TREE_NOT_FOUND error when the
// collection has none.
func (s *session) current() (treeio.NamedTree, error) {
	t, ok := s.col.Current()
	if !ok {
		return treeio.NamedTree{}, kferrors.New(kferrors.ErrCodeTreeNotFound,
			"no active tree, create one with %q", appName+" tree init <name>")
	}
	return t, nil
}

// findTree resolves a tree by name or id.
func (s *session) findTree(nameOrID string) (treeio.NamedTree, error) {
	if t, ok := s.col.Tree(nameOrID); ok {
		return t, nil
	}
	for _, t := range s.col.Trees {
		if t.Name == nameOrID {
			return t, nil
		}
	}
	return treeio.NamedTree{}, kferrors.New(kferrors.ErrCodeTreeNotFound, "no tree named %q", nameOrID)
}

// save writes the collection back through the store.
func (s *session) save(ctx context.Context) error {
	return s.store.Save(ctx, s.col)
}

// requirePerson fails with a PERSON_NOT_FOUND error when id is absent.
func requirePerson(g familytree.TreeGraph, id string) (familytree.Person, error) {
	p, ok := g.Person(id)
	if !ok {
		return familytree.Person{}, kferrors.New(kferrors.ErrCodePersonNotFound, "no person with id %q", id)
	}
	return p, nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// openOutput opens path for writing, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// describe renders a one-line summary of a person for list output.
func describe(p familytree.Person) string {
	name := p.DisplayName()
	if name == "" {
		name = p.ID
	}
	span := lifespanText(p)
	if span == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, span)
}

// lifespanText formats birth and death dates for display.
func lifespanText(p familytree.Person) string {
	switch {
	case p.BirthDate != nil && p.DeathDate != nil:
		return *p.BirthDate + " – " + *p.DeathDate
	case p.BirthDate != nil:
		return "* " + *p.BirthDate
	case p.DeathDate != nil:
		return "† " + *p.DeathDate
	default:
		return ""
	}
}
