package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/eringen/pubstatic"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app := &cli.App{
		Name:    "pubstatic",
		Usage:   "A static blog generator built with Go, Echo, and templ",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the site config",
				EnvVars: []string{"PUBSTATIC_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "root",
				Value: ".",
				Usage: "project directory content paths are resolved against",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build the site into the output directory",
				Action: buildAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory (overrides config)"},
				},
			},
			{
				Name:   "serve",
				Usage:  "Preview the site with a development server",
				Action: serveAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address (overrides config)"},
				},
			},
			{
				Name:      "new",
				Usage:     "Create a new pubstatic project",
				ArgsUsage: "<project-name>",
				Action:    newAction,
			},
			{
				Name:   "posts",
				Usage:  "List posts recorded by the last build",
				Action: postsAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tag", Usage: "only posts carrying this tag"},
					&cli.BoolFlag{Name: "notebooks", Usage: "list notebooks instead of posts"},
					&cli.BoolFlag{Name: "projects", Usage: "list projects instead of posts"},
				},
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "pubstatic %s\n", version)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadApp(c *cli.Context) (*pubstatic.App, error) {
	root := c.String("root")
	cfgPath := c.String("config")
	if !filepath.IsAbs(cfgPath) {
		cfgPath = filepath.Join(root, cfgPath)
	}
	cfg, err := pubstatic.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if c.IsSet("out") {
		cfg.OutputDir = c.String("out")
	}
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}
	return pubstatic.New(cfg, pubstatic.ViewFuncs{}, pubstatic.WithRoot(root)), nil
}

func buildAction(c *cli.Context) error {
	app, err := loadApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := app.Build(ctx)
	if err != nil {
		return err
	}
	_, err = app.Write(ctx, res)
	return err
}

func serveAction(c *cli.Context) error {
	app, err := loadApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Logger.Infof("serving on %s", app.Config.Addr)
	return app.Serve(ctx)
}

func postsAction(c *cli.Context) error {
	app, err := loadApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Open(); err != nil {
		return err
	}
	store := app.Store

	kind := pubstatic.KindPost
	switch {
	case c.Bool("notebooks"):
		kind = pubstatic.KindNotebook
	case c.Bool("projects"):
		kind = pubstatic.KindProject
	}
	nodes, err := store.ListNodes(kind, c.String("tag"))
	if err != nil {
		return fmt.Errorf("failed to list %ss: %w", kind, err)
	}
	if len(nodes) == 0 {
		fmt.Printf("No %ss found. Run 'pubstatic build' first.\n", kind)
		return nil
	}

	fmt.Printf("%-12s %-40s %-12s %s\n", "Date", "Slug", "Reading", "Tags")
	fmt.Println(strings.Repeat("-", 90))
	for _, n := range nodes {
		fmt.Printf("%-12s %-40s %-12s %s\n", n.Date, n.Slug, n.ReadingTime, strings.Join(n.Tags, ", "))
	}
	fmt.Printf("\nTotal: %d %ss\n", len(nodes), kind)

	if b, err := store.LastBuild(); err == nil {
		fmt.Printf("Last build: %s (%d pages, %dms)\n", b.FinishedAt, b.Pages, b.DurationMS)
	}
	return nil
}
