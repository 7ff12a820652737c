// Package cli implements the quantdash terminal client.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/quantdash/internal/app"
	"github.com/bobmcallan/quantdash/internal/common"
	"github.com/bobmcallan/quantdash/internal/pages"
)

// AppFactory builds the App for a command invocation.
type AppFactory func(configPath string) (*app.App, error)

// CLI carries the state shared by every command of one invocation.
type CLI struct {
	newApp AppFactory
	app    *app.App
	out    io.Writer

	configPath string
	style      string
	width      int
	currency   string
}

// NewRootCmd creates the root command. A nil factory uses app.NewApp.
func NewRootCmd(factory AppFactory, out io.Writer) *cobra.Command {
	if factory == nil {
		factory = app.NewApp
	}
	c := &CLI{newApp: factory, out: out}

	rootCmd := &cobra.Command{
		Use:   "quantdash",
		Short: "quantdash - Quant Analysis Dashboard",
		Long: `quantdash shows market summaries, portfolio analytics and recommendations
in the terminal. Sign in once with "quantdash login"; the session is kept between runs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return c.open()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.navigate(cmd, "/", pages.Params{})
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&c.style, "style", "dark", "Markdown style: dark, light or notty")
	rootCmd.PersistentFlags().IntVar(&c.width, "width", 100, "Wrap width for rendered text")
	rootCmd.PersistentFlags().StringVar(&c.currency, "currency", "USD", "Display currency code")

	rootCmd.AddCommand(newLoginCmd(c))
	rootCmd.AddCommand(newRegisterCmd(c))
	rootCmd.AddCommand(newLogoutCmd(c))
	rootCmd.AddCommand(newWhoamiCmd(c))
	rootCmd.AddCommand(newOpenCmd(c))
	rootCmd.AddCommand(newDashboardCmd(c))
	rootCmd.AddCommand(newStockCmd(c))
	rootCmd.AddCommand(newHistoryCmd(c))
	rootCmd.AddCommand(newPortfolioCmd(c))
	rootCmd.AddCommand(newRecommendationsCmd(c))
	rootCmd.AddCommand(newVersionCmd(c))

	return rootCmd
}

func (c *CLI) open() error {
	if c.app != nil {
		return nil
	}
	a, err := c.newApp(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	c.app = a
	return nil
}

func (c *CLI) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

func (c *CLI) renderer() *pages.Renderer {
	return pages.NewRenderer(c.app.Queries,
		pages.WithCurrency(c.currency),
		pages.WithMarkdownStyle(c.style),
		pages.WithWidth(c.width),
		pages.WithLogger(c.app.Logger),
	)
}

func (c *CLI) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func newVersionCmd(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			c.printf("quantdash %s\n", common.GetFullVersion())
		},
	}
}
