package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/indieinfra/mediaprep/config"
	"github.com/indieinfra/mediaprep/logging"
	"github.com/indieinfra/mediaprep/media"
	"github.com/indieinfra/mediaprep/server"
	"github.com/indieinfra/mediaprep/stage"
)

type app struct {
	configFile string
	cfg        *config.Config
	logger     zerolog.Logger
}

type hintFlags struct {
	filename   string
	legacyType string
	mimeType   string
	target     string
}

func (h *hintFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&h.filename, "filename", "", "Name to store the media under (defaults to the file's base name)")
	cmd.Flags().StringVar(&h.legacyType, "type", "", "Deprecated type hint (gif, jpg, png, webp, srt, mp4, longmp4, mov)")
	cmd.Flags().StringVar(&h.mimeType, "mime-type", "", "Explicit MIME type, overrides every other hint")
	cmd.Flags().StringVar(&h.target, "target", "", "Upload target: tweet or dm (defaults to upload.target)")
}

func (h *hintFlags) options() stage.Options {
	return stage.Options{
		Filename:   h.filename,
		LegacyType: h.legacyType,
		MimeType:   h.mimeType,
		Target:     media.Target(h.target),
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "mediaprep",
		Short:         "Prepare media files for chunked upload",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(a.configFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg
			a.logger = logging.New(cfg.Logging, stderr)
			if cfg.Debug {
				a.logger = a.logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.configFile, "config", "config.yml", "Path to the configuration file (i.e., /etc/mediaprep.yml)")

	root.AddCommand(a.inspectCmd(), a.stageCmd(), a.serveCmd())
	return root
}

func (a *app) inspectCmd() *cobra.Command {
	var hints hintFlags

	cmd := &cobra.Command{
		Use:   "inspect <file|->",
		Short: "Resolve type, category and chunk plan without uploading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stager, err := stage.FromConfig(a.cfg, afero.NewOsFs(), a.logger)
			if err != nil {
				return err
			}
			defer stager.Close()

			ref, err := referenceFor(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			info, err := stager.Inspect(cmd.Context(), ref, hints.options())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), info)
		},
	}
	hints.register(cmd)
	return cmd
}

func (a *app) stageCmd() *cobra.Command {
	var hints hintFlags

	cmd := &cobra.Command{
		Use:   "stage <file|->",
		Short: "Upload a file to the configured media store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stager, err := stage.FromConfig(a.cfg, afero.NewOsFs(), a.logger)
			if err != nil {
				return err
			}
			defer stager.Close()

			ref, err := referenceFor(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			result, err := stager.Stage(cmd.Context(), ref, hints.options())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	hints.register(cmd)
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the media upload HTTP endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.StartServer(a.cfg, a.logger)
		},
	}
}

// referenceFor maps "-" to the bytes of stdin and anything else to a path.
func referenceFor(stdin io.Reader, arg string) (media.Reference, error) {
	if arg != "-" {
		return media.Path(arg), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return media.Buffer(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "mediaprep: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
