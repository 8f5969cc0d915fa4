package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorgen/internal/config"
	"github.com/matzehuels/floorgen/pkg/buildinfo"
	"github.com/matzehuels/floorgen/pkg/cache"
	"github.com/matzehuels/floorgen/pkg/graph"
	"github.com/matzehuels/floorgen/pkg/model"
	"github.com/matzehuels/floorgen/pkg/model/procedural"
	"github.com/matzehuels/floorgen/pkg/model/remote"
	"github.com/matzehuels/floorgen/pkg/pipeline"
	"github.com/matzehuels/floorgen/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "floorgen"

	// defaultOutputBase names layout outputs when -o is not given.
	defaultOutputBase = "floorplan"
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

	// out receives command results; logs go to Logger.
	out *printer

	// catalogPath is the --catalog flag: a TOML file with room types and
	// adjacency rules.
	catalogPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), out: newPrinter(os.Stdout)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Floorgen generates floor plan layouts from a list of rooms",
		Long: `Floorgen turns a list of room types into a floor plan. It derives a constraint
graph of which rooms should touch, then drives a generative layout model through
an incremental refinement loop that fixes one room type at a time.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", os.Getenv(config.EnvCatalog),
		"TOML file with room types and adjacency rules (default: built-in)")

	// Register all subcommands
	root.AddCommand(c.roomsCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newBuilder loads the catalog and rules selected by --catalog.
func (c *CLI) newBuilder() (*graph.Builder, error) {
	return graph.LoadBuilder(c.catalogPath)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool, gen model.Generator) (*pipeline.Runner, error) {
	builder, err := c.newBuilder()
	if err != nil {
		return nil, err
	}
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(builder, gen, cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newGenerator selects the remote model service when url is set and the
// in-process procedural generator otherwise.
func newGenerator(url string, timeout time.Duration) model.Generator {
	if url == "" {
		return procedural.New()
	}
	return remote.New(url,
		remote.WithTimeout(timeout),
		remote.WithHeader("User-Agent", appName+"/"+buildinfo.Get().Version))
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/floorgen/).
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

// basePath strips a known format extension from output so that one base can
// name several files (plan.svg, plan.png).
func basePath(output string) string {
	if output == "" {
		return defaultOutputBase
	}
	ext := filepath.Ext(output)
	if pipeline.ValidGraphFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// writeFile writes data to path, or to the command output when path is "-".
func (c *CLI) writeFile(path string, data []byte) error {
	if path == "-" {
		_, err := c.out.w.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// envOr returns the environment variable key, or def when it is unset.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
