package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/birdayz/textcodec/pkg/codec"
	"github.com/birdayz/textcodec/pkg/config"
)

// App holds all shared mutable state for the CLI. It is created once per
// invocation and threaded into every command package.
type App struct {
	// I/O
	OutWriter    io.Writer
	ErrWriter    io.Writer
	InReader     io.Reader
	ColorableOut io.Writer
	Logger       *slog.Logger

	// Config state
	Cfg             config.Config
	Profile         *config.Profile
	CfgFile         string
	ProfileOverride string
	Verbose         bool

	// Per-command overrides of the active profile
	EncodingFlag codec.Encoding
	ErrorsFlag   string
	OutputFlag   OutputFormat
	InputFlag    InputFormat

	// Display
	JSONFormatter *prettyjson.Formatter
	NoHeaderFlag  bool

	// Root command reference (for completion generation)
	Root *cobra.Command
}

// New creates an App with sane defaults.
func New() *App {
	return &App{
		OutWriter:     os.Stdout,
		ErrWriter:     os.Stderr,
		InReader:      os.Stdin,
		ColorableOut:  colorable.NewColorableStdout(),
		Logger:        slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
		JSONFormatter: prettyjson.NewFormatter(),
	}
}

// InitLogger points the logger at ErrWriter. --verbose enables debug output.
func (a *App) InitLogger() {
	level := slog.LevelWarn
	if a.Verbose {
		level = slog.LevelDebug
	}
	a.Logger = slog.New(slog.NewTextHandler(a.ErrWriter, &slog.HandlerOptions{Level: level}))
}

// InitConfig reads the config file and resolves the active profile, with flag
// overrides applied. Called by PersistentPreRunE on the root command.
func (a *App) InitConfig() error {
	var err error
	a.Cfg, err = config.ReadConfig(a.CfgFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a.Cfg.ProfileOverride = a.ProfileOverride

	profile := a.Cfg.ActiveProfile()
	switch {
	case profile != nil:
		a.Logger.Debug("using profile", "profile", profile.Name, "config", a.Cfg.Path())
	case a.ProfileOverride != "":
		return fmt.Errorf("profile %q not found in %s", a.ProfileOverride, a.Cfg.Path())
	default:
		profile = config.DefaultProfile()
	}

	// Fill what the profile leaves open from the defaults.
	defaults := config.DefaultProfile()
	if profile.Encoding == codec.Unknown {
		profile.Encoding = defaults.Encoding
	}
	if profile.Output == "" {
		profile.Output = defaults.Output
	}
	if profile.Input == "" {
		profile.Input = defaults.Input
	}

	if a.EncodingFlag != codec.Unknown {
		profile.Encoding = a.EncodingFlag
	}
	if a.ErrorsFlag != "" {
		if profile.Errors, err = codec.ParseErrorMode(a.ErrorsFlag); err != nil {
			return err
		}
	}
	if a.OutputFlag != "" {
		profile.Output = string(a.OutputFlag)
	}
	if a.InputFlag != "" {
		profile.Input = string(a.InputFlag)
	}

	if _, err := ParseOutputFormat(profile.Output); err != nil {
		return fmt.Errorf("profile %q: output: %w", profile.Name, err)
	}
	if _, err := ParseInputFormat(profile.Input); err != nil {
		return fmt.Errorf("profile %q: input: %w", profile.Name, err)
	}

	a.Profile = profile
	return nil
}

// NewCodec returns a codec for the resolved profile.
func (a *App) NewCodec() (*codec.Codec, error) {
	return codec.New(a.Profile.Encoding, codec.WithErrorMode(a.Profile.Errors))
}

// Output returns the resolved output format.
func (a *App) Output() OutputFormat {
	return OutputFormat(a.Profile.Output)
}

// Input returns the resolved input format.
func (a *App) Input() InputFormat {
	return InputFormat(a.Profile.Input)
}

// AddCodecFlags installs --encoding and --errors on cmd.
func (a *App) AddCodecFlags(cmd *cobra.Command) {
	cmd.Flags().VarP(&a.EncodingFlag, "encoding", "e", "Character encoding (default from profile, utf-8 otherwise)")
	if err := cmd.RegisterFlagCompletionFunc("encoding", CompleteEncoding); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}
	a.AddErrorsFlag(cmd)
}

// AddErrorsFlag installs --errors on cmd.
func (a *App) AddErrorsFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.ErrorsFlag, "errors", "", "Error handling: strict or replace (default from profile, strict otherwise)")
	if err := cmd.RegisterFlagCompletionFunc("errors", CompleteErrorMode); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}
}

// AddOutputFlag installs --output on cmd.
func (a *App) AddOutputFlag(cmd *cobra.Command) {
	cmd.Flags().VarP(&a.OutputFlag, "output", "o", "Output format: raw, hex, base64, escaped, json, msgpack")
	if err := cmd.RegisterFlagCompletionFunc("output", CompleteOutputFormat); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}
}

// AddInputFlag installs --input on cmd.
func (a *App) AddInputFlag(cmd *cobra.Command) {
	cmd.Flags().Var(&a.InputFlag, "input", "Input format: raw, hex, base64")
	if err := cmd.RegisterFlagCompletionFunc("input", CompleteInputFormat); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}
}

// AddNoHeadersFlag installs --no-headers on cmd.
func (a *App) AddNoHeadersFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&a.NoHeaderFlag, "no-headers", false, "Hide table headers")
}

// ValidProfileArgs provides shell completion for profile names.
func (a *App) ValidProfileArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	profileList := make([]string, 0, len(a.Cfg.Profiles))
	for _, profile := range a.Cfg.Profiles {
		profileList = append(profileList, profile.Name)
	}
	return profileList, cobra.ShellCompDirectiveNoFileComp
}

const (
	TabwriterMinWidth = 6
	TabwriterWidth    = 4
	TabwriterPadding  = 3
	TabwriterPadChar  = ' '
	TabwriterFlags    = 0
)

// NewTabWriter creates a standard tabwriter for CLI output.
func NewTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, TabwriterMinWidth, TabwriterWidth, TabwriterPadding, TabwriterPadChar, TabwriterFlags)
}
