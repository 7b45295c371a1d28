package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/birdayz/textcodec/pkg/app"
	"github.com/birdayz/textcodec/pkg/cmd/completion"
	tcconfig "github.com/birdayz/textcodec/pkg/cmd/config"
	"github.com/birdayz/textcodec/pkg/cmd/convert"
	"github.com/birdayz/textcodec/pkg/cmd/decode"
	"github.com/birdayz/textcodec/pkg/cmd/encode"
	"github.com/birdayz/textcodec/pkg/cmd/inspect"
	"github.com/birdayz/textcodec/pkg/cmd/list"
	"github.com/birdayz/textcodec/pkg/cmd/roundtrip"
)

// Execute is the single entry point for the CLI.
func Execute(version, commit string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand(app.New(), version, commit).ExecuteContext(ctx)
}

// NewRootCommand builds the full command tree around a.
func NewRootCommand(a *app.App, version, commit string) *cobra.Command {
	root := &cobra.Command{
		Use:          "textcodec",
		Short:        "Encode text to bytes and decode bytes to text",
		Long:         "Convert text to bytes and back under a named character encoding: ASCII, Latin-1/9, CP437, UTF-8, UTF-16 and UTF-32.",
		Version:      fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.OutWriter = cmd.OutOrStdout()
			a.ErrWriter = cmd.ErrOrStderr()
			a.InReader = cmd.InOrStdin()

			if a.OutWriter != os.Stdout {
				a.ColorableOut = a.OutWriter
				a.JSONFormatter.DisabledColor = true
			}

			a.InitLogger()
			return a.InitConfig()
		},
	}

	root.PersistentFlags().StringVar(&a.CfgFile, "config", "", "config file (default is $HOME/.textcodec/config)")
	root.PersistentFlags().StringVarP(&a.ProfileOverride, "profile", "p", "", "set a temporary current profile")
	root.PersistentFlags().BoolVarP(&a.Verbose, "verbose", "v", false, "Log debug output to stderr")

	if err := root.RegisterFlagCompletionFunc("profile", a.ValidProfileArgs); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}

	root.AddCommand(
		encode.NewCommand(a),
		decode.NewCommand(a),
		roundtrip.NewCommand(a),
		convert.NewCommand(a),
		inspect.NewCommand(a),
		list.NewCommand(a),
		tcconfig.NewCommand(a),
		completion.NewCommand(root, a),
	)

	a.Root = root
	return root
}
