package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"HeicConvert/internal/codec"
	"HeicConvert/internal/config"
	"HeicConvert/internal/convert"
	"HeicConvert/internal/display"
	"HeicConvert/internal/domain"
	"HeicConvert/internal/logger"
	"HeicConvert/internal/preview"
	"HeicConvert/internal/server"
	"HeicConvert/internal/settings"
	"HeicConvert/internal/storage"
	"HeicConvert/internal/ui"
)

// errFailures makes the process exit 1 after a batch with failed files.
var errFailures = errors.New("some files could not be converted")

type app struct {
	cfg   *config.Config
	store *settings.Store
}

// openerFor picks the viewer for a command. allowBuiltin is false where the
// ebiten window cannot own the main thread (TUI, web server).
func (a *app) openerFor(allowBuiltin bool) convert.Opener {
	switch a.cfg.Viewer.Mode {
	case config.ViewerNone:
		return nil
	case config.ViewerBuiltin:
		if allowBuiltin {
			return preview.Opener{}
		}
	}
	return display.SystemOpener{}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "heicconv",
		Short:         "Convert HEIC/HEIF photos to JPG, PNG and other formats",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			if cmd.Name() != "tui" {
				logger.Setup(cfg.Log, os.Stderr)
			}
			a.store = settings.NewStore(cfg.Settings.Path)
			return nil
		},
	}

	root.AddCommand(
		newConvertCmd(a),
		newTUICmd(a),
		newServeCmd(a),
		newSettingsCmd(a),
		newConfigCmd(a),
		newAssociateCmd(),
	)
	return root
}

func newConvertCmd(a *app) *cobra.Command {
	var format, outDir string
	var noOpen bool

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Convert files using the saved settings as defaults",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.store.Load()
			if format == "" {
				format = s.OutputFormat
			}
			if outDir == "" {
				outDir = s.SaveLocation
			}
			format = codec.NormalizeFormat(format)

			var opts []convert.Option
			if o := a.openerFor(true); o != nil && !noOpen {
				opts = append(opts, convert.WithOpener(o))
			}
			conv := convert.New(codec.New(), opts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			b := domain.Batch{SourcePaths: args, TargetFormat: format, OutputDir: outDir}
			out, err := conv.Run(ctx, b, func(p domain.Progress) {
				printProgress(cmd, p)
			})
			if err != nil {
				return err
			}
			ok, failed := out.Counts()
			fmt.Fprintf(cmd.OutOrStdout(), "converted %d, failed %d\n", ok, failed)
			if out.OpenErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "could not open %s: %v\n", out.Opened, out.OpenErr)
			}
			if failed > 0 {
				return errFailures
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "target format ("+strings.Join(codec.TargetFormats(), ", ")+")")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "do not open the first converted file")
	return cmd
}

func printProgress(cmd *cobra.Command, p domain.Progress) {
	r := p.Result
	if r.OK() {
		fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s -> %s\n", p.Index+1, p.Total, r.SourcePath, r.OutputPath)
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s: %v\n", p.Index+1, p.Total, r.SourcePath, r.Err)
}

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Pick files and convert them interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := tea.LogToFile("heicconv-tui.log", "heicconv")
			if err != nil {
				return fmt.Errorf("log file: %w", err)
			}
			defer f.Close()
			logger.Setup(a.cfg.Log, f)

			var opts []convert.Option
			if o := a.openerFor(false); o != nil {
				opts = append(opts, convert.WithOpener(o))
			}
			model := ui.NewModel(a.store, convert.New(codec.New(), opts...))

			final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			if err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			if m, ok := final.(ui.Model); ok && m.Failed() > 0 {
				return errFailures
			}
			return nil
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local web API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srvCfg := a.cfg.Server
			if port != 0 {
				srvCfg.Port = port
			}

			dir, err := storage.Dir()
			if err != nil {
				return err
			}
			uploads, err := storage.NewUploads(dir, storage.MaxUploadBytes)
			if err != nil {
				return err
			}

			api := server.NewAPI(a.store, uploads, codec.New(), a.openerFor(false))
			srv := server.NewServer(srvCfg, api)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	return cmd
}

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the saved conversion settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.store.Load()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "file:          %s\n", a.store.Path)
			fmt.Fprintf(w, "input_format:  %s\n", s.InputFormat)
			fmt.Fprintf(w, "output_format: %s\n", s.OutputFormat)
			fmt.Fprintf(w, "save_location: %s\n", s.SaveLocation)
			return nil
		},
	})

	var in, out, loc string
	set := &cobra.Command{
		Use:   "set",
		Short: "Change one or more settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.store.Load()
			flags := cmd.Flags()
			if flags.Changed("input-format") {
				s.InputFormat = strings.TrimSpace(in)
			}
			if flags.Changed("output-format") {
				f := codec.NormalizeFormat(out)
				if !codec.Supported(f) {
					return fmt.Errorf("unsupported output format %q", out)
				}
				s.OutputFormat = f
			}
			if flags.Changed("save-location") {
				s.SaveLocation = strings.TrimSpace(loc)
			}
			if err := a.store.Save(s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", a.store.Path)
			return nil
		},
	}
	set.Flags().StringVar(&in, "input-format", "", "input format shown in the file picker (heic, * for all)")
	set.Flags().StringVar(&out, "output-format", "", "default target format")
	set.Flags().StringVar(&loc, "save-location", "", "default output directory (empty for the Converted folder)")
	cmd.AddCommand(set)

	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the application config",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.Path()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", p, data)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.Path()
			if err != nil {
				return err
			}
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists", p)
			}
			if err := config.Save(config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
			return nil
		},
	})

	return cmd
}

func newAssociateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "associate FORMAT",
		Short: "Register a file format with this program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), display.Associate(args[0]))
			return nil
		},
	}
}
