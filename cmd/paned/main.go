// Command paned runs the pane geometry daemon and the CLI that drives it.
// The daemon owns one tab's tiled layout and serves verbs over a unix
// socket; every other subcommand is a thin client for one verb.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/1broseidon/paned/internal/engine"
	"github.com/1broseidon/paned/internal/engineconfig"
	"github.com/1broseidon/paned/internal/enginelog"
	"github.com/1broseidon/paned/internal/ipcsurface"
	"github.com/1broseidon/paned/internal/mcpsurface"
	"github.com/1broseidon/paned/internal/render"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	viper.SetEnvPrefix("PANED")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "paned",
		Short:         "Tiled pane geometry daemon and client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String(FlagConfig, "", "config file path")
	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "enable debug logging")
	_ = viper.BindPFlag(FlagConfig, rootCmd.PersistentFlags().Lookup(FlagConfig))
	_ = viper.BindPFlag(FlagVerbose, rootCmd.PersistentFlags().Lookup(FlagVerbose))

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(),
		newMCPCmd(),
		newSplitCmd(),
		newCloseCmd(),
		newFullscreenCmd(),
		newResizeCmd(),
		newFocusCmd(),
		newMoveCmd(),
		newStackCmd(),
		newReflowCmd(),
		newApplyCmd(),
		newSwapCmd(),
		newPanesCmd(),
		newRenderCmd(),
		newStatusCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("paned %s\n", version)
		},
	}
}

func loadConfig() (*engineconfig.Config, error) {
	cfg, err := engineconfig.Load(viper.GetString(FlagConfig))
	if err != nil {
		return nil, err
	}
	if viper.GetBool(FlagVerbose) {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// screenSize resolves the tab extent: explicit flags win, then config,
// then the controlling terminal.
func screenSize(cfg *engineconfig.Config) (rows, cols int, err error) {
	rows, cols = viper.GetInt(FlagRows), viper.GetInt(FlagCols)
	if rows == 0 {
		rows = cfg.Screen.Rows
	}
	if cols == 0 {
		cols = cfg.Screen.Cols
	}
	if rows > 0 && cols > 0 {
		return rows, cols, nil
	}
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("detect terminal size (pass --rows/--cols when not on a tty): %w", err)
	}
	if rows == 0 {
		rows = h
	}
	if cols == 0 {
		cols = w
	}
	return rows, cols, nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the geometry daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := enginelog.New(cfg.Logging)

			rows, cols, err := screenSize(cfg)
			if err != nil {
				return err
			}

			drawFrames := cfg.DrawFrames
			if cmd.Flags().Changed(FlagDrawFrames) {
				drawFrames = viper.GetBool(FlagDrawFrames)
			}
			eng := engine.New(rows, cols, drawFrames)

			layoutName := viper.GetString(FlagLayout)
			if layoutName == "" {
				layoutName = cfg.DefaultLayout
			}
			if err := applyStartupLayout(eng, cfg, layoutName); err != nil {
				return err
			}
			log.Info("daemon starting", "rows", rows, "cols", cols, "layout", layoutName)

			server, err := ipcsurface.NewServer(eng, cfg, log)
			if err != nil {
				return err
			}
			if err := server.Start(); err != nil {
				return err
			}
			defer server.Stop()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig
			log.Info("daemon stopping")
			return nil
		},
	}
	cmd.Flags().Int(FlagRows, 0, "tab rows (default: terminal height)")
	cmd.Flags().Int(FlagCols, 0, "tab columns (default: terminal width)")
	cmd.Flags().String(FlagLayout, "", "startup layout name")
	cmd.Flags().Bool(FlagDrawFrames, false, "reserve frame overhead around panes")
	_ = viper.BindPFlag(FlagRows, cmd.Flags().Lookup(FlagRows))
	_ = viper.BindPFlag(FlagCols, cmd.Flags().Lookup(FlagCols))
	_ = viper.BindPFlag(FlagLayout, cmd.Flags().Lookup(FlagLayout))
	_ = viper.BindPFlag(FlagDrawFrames, cmd.Flags().Lookup(FlagDrawFrames))
	return cmd
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the pane verbs as MCP tools on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := enginelog.New(cfg.Logging)
			server := mcpsurface.NewServer(ipcsurface.NewClient(), log)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx)
		},
	}
}

func newSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "split {horizontal|vertical|largest}",
		Short:     "Split a pane",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"horizontal", "vertical", "largest"},
		RunE: func(cmd *cobra.Command, args []string) error {
			pane, _ := cmd.Flags().GetString(FlagPane)
			newPane, err := ipcsurface.NewClient().Split(pane, args[0])
			if err != nil {
				return err
			}
			if newPane != "" {
				fmt.Println(newPane)
			}
			return nil
		},
	}
	addPaneFlag(cmd)
	return cmd
}

func newCloseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close a pane",
		RunE: func(cmd *cobra.Command, args []string) error {
			pane, _ := cmd.Flags().GetString(FlagPane)
			return ipcsurface.NewClient().Close(pane)
		},
	}
	addPaneFlag(cmd)
	return cmd
}

func newFullscreenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fullscreen",
		Short: "Toggle fullscreen for a pane",
		RunE: func(cmd *cobra.Command, args []string) error {
			pane, _ := cmd.Flags().GetString(FlagPane)
			return ipcsurface.NewClient().ToggleFullscreen(pane)
		},
	}
	addPaneFlag(cmd)
	return cmd
}

func newResizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "resize {up|down|left|right|increase|decrease}",
		Short:     "Move a pane edge",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "left", "right", "increase", "decrease"},
		RunE: func(cmd *cobra.Command, args []string) error {
			pane, _ := cmd.Flags().GetString(FlagPane)
			step, _ := cmd.Flags().GetInt(FlagStep)
			return ipcsurface.NewClient().Resize(pane, args[0], step)
		},
	}
	addPaneFlag(cmd)
	cmd.Flags().Int(FlagStep, 1, "cells to move the edge by")
	return cmd
}

func newFocusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "focus {up|down|left|right}",
		Short:     "Move focus to a neighboring pane",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "left", "right"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _ := cmd.Flags().GetString(FlagClient)
			return ipcsurface.NewClient().MoveFocus(client, args[0])
		},
	}
	addClientFlag(cmd)
	return cmd
}

func newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "move {up|down|left|right}",
		Short:     "Swap the active pane with its neighbor",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "left", "right"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _ := cmd.Flags().GetString(FlagClient)
			return ipcsurface.NewClient().MovePane(client, args[0])
		},
	}
	addClientFlag(cmd)
	return cmd
}

func newStackCmd() *cobra.Command {
	stackCmd := &cobra.Command{
		Use:   "stack",
		Short: "Stack operations",
	}

	combineCmd := &cobra.Command{
		Use:   "combine [pane...]",
		Short: "Merge panes into a stack (no args: every pane aligned with the root)",
		RunE: func(cmd *cobra.Command, args []string) error {
			pane, _ := cmd.Flags().GetString(FlagPane)
			orientation, _ := cmd.Flags().GetString("orientation")
			return ipcsurface.NewClient().CombineStack(pane, args, orientation)
		},
	}
	addPaneFlag(combineCmd)
	combineCmd.Flags().String("orientation", "vertical", "vertical or horizontal")

	breakOutCmd := &cobra.Command{
		Use:   "break-out",
		Short: "Eject a pane from its stack",
		RunE: func(cmd *cobra.Command, args []string) error {
			pane, _ := cmd.Flags().GetString(FlagPane)
			return ipcsurface.NewClient().BreakOut(pane)
		},
	}
	addPaneFlag(breakOutCmd)

	focusCmd := &cobra.Command{
		Use:   "focus",
		Short: "Promote a stacked pane to be visible",
		RunE: func(cmd *cobra.Command, args []string) error {
			pane, _ := cmd.Flags().GetString(FlagPane)
			return ipcsurface.NewClient().FocusStackPane(pane)
		},
	}
	addPaneFlag(focusCmd)

	stackCmd.AddCommand(combineCmd, breakOutCmd, focusCmd)
	return stackCmd
}

func newReflowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reflow <rows> <cols>",
		Short: "Resize the tab",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid rows %q", args[0])
			}
			cols, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid cols %q", args[1])
			}
			return ipcsurface.NewClient().Reflow(rows, cols)
		},
	}
}

// layoutArgs resolves a layout subcommand's inputs: a file via --file, or
// a layout name as the positional argument.
func layoutArgs(cmd *cobra.Command, args []string) (name, yamlText string, err error) {
	if file, _ := cmd.Flags().GetString(FlagFile); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", "", fmt.Errorf("read layout file: %w", err)
		}
		return "", string(data), nil
	}
	if len(args) == 0 {
		return "", "", fmt.Errorf("layout name or --file is required")
	}
	return args[0], "", nil
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [layout-name]",
		Short: "Replace the pane set with a declarative layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, yamlText, err := layoutArgs(cmd, args)
			if err != nil {
				return err
			}
			return ipcsurface.NewClient().ApplyLayout(name, yamlText)
		},
	}
	cmd.Flags().String(FlagFile, "", "layout YAML file")
	return cmd
}

func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap [layout-name]",
		Short: "Rearrange existing panes per another layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, yamlText, err := layoutArgs(cmd, args)
			if err != nil {
				return err
			}
			return ipcsurface.NewClient().SwapLayout(name, yamlText)
		},
	}
	cmd.Flags().String(FlagFile, "", "layout YAML file")
	return cmd
}

func newPanesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "panes",
		Short: "List panes",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ipcsurface.NewClient().ListPanes()
			if err != nil {
				return err
			}
			rows := make([]render.PaneRow, 0, len(data.Panes))
			for _, p := range data.Panes {
				rows = append(rows, render.PaneRow{
					ID:       p.ID,
					X:        p.X,
					Y:        p.Y,
					Cols:     p.Cols,
					Rows:     p.Rows,
					Position: p.LogicalPosition,
					Stack:    p.Stack,
					Active:   p.Active,
				})
			}
			fmt.Println(render.Table(rows))
			return nil
		},
	}
}

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Draw the current layout as an ASCII diagram",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ipcsurface.NewClient().ListPanes()
			if err != nil {
				return err
			}
			boxes := make([]render.Box, 0, len(data.Panes))
			for _, p := range data.Panes {
				label := p.ID
				if len(label) > 8 {
					label = label[:8]
				}
				boxes = append(boxes, render.Box{
					X:        p.X,
					Y:        p.Y,
					Cols:     p.Cols,
					Rows:     p.Rows,
					Label:    label,
					Titlebar: p.Stack != "" && !p.Flexible,
					Active:   p.Active,
				})
			}
			fmt.Println(render.ASCII(data.Rows, data.Cols, boxes))
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ipcsurface.NewClient().GetStatus()
			if err != nil {
				return err
			}
			fmt.Printf("panes:      %d\n", status.PaneCount)
			fmt.Printf("screen:     %dx%d\n", status.Cols, status.Rows)
			fmt.Printf("fullscreen: %v\n", status.Fullscreen)
			fmt.Printf("uptime:     %ds\n", status.UptimeSeconds)
			if status.ActivePane != "" {
				fmt.Printf("active:     %s\n", status.ActivePane)
			}
			return nil
		},
	}
}

func addPaneFlag(cmd *cobra.Command) {
	cmd.Flags().String(FlagPane, "", "target pane id (default: the active pane)")
}

func addClientFlag(cmd *cobra.Command) {
	cmd.Flags().String(FlagClient, "", "client id")
}
