// Package datacli implements the marquee-data commands.
package datacli

import (
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/datasource"
	"github.com/five82/marquee/internal/remotesync"
)

const defaultAddr = "127.0.0.1:7490"

var (
	okColor    = color.New(color.FgGreen)
	faintColor = color.New(color.FgHiBlack)
	markColor  = color.New(color.FgYellow, color.Bold)
)

type globals struct {
	dbPath string
	root   string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "marquee-data",
		Short:         "Development data source for the marquee sign",
		Long:          "Serves and edits the sentence tree the sign polls. SQLite-backed, same REST dialect as the hosted database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.dbPath, "db", "d", "", "Database path (default: $MARQUEE_DATA_DB or ~/.local/share/marquee/data.db)")
	root.PersistentFlags().StringVar(&g.root, "root", "/display", "Tree root the sign reads")

	root.AddCommand(
		newServeCmd(g),
		newSetCmd(g),
		newSelectCmd(g),
		newClearCmd(g),
		newListCmd(g),
	)
	return root
}

func (g *globals) path() string {
	if g.dbPath != "" {
		return g.dbPath
	}
	if env := os.Getenv("MARQUEE_DATA_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "marquee", "data.db")
}

func (g *globals) open() (*datasource.Store, error) {
	return datasource.Open(g.path())
}

func (g *globals) display(s *datasource.Store) datasource.Display {
	return datasource.Display{Store: s, Paths: remotesync.Paths{Root: g.root}}
}
