package config

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/birdayz/textcodec/pkg/app"
	"github.com/birdayz/textcodec/pkg/codec"
	"github.com/birdayz/textcodec/pkg/config"
)

// NewCommand returns the "textcodec config" command with subcommands.
func NewCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Handle textcodec configuration",
	}

	cmd.AddCommand(
		newCurrentProfileCommand(a),
		newUseProfileCommand(a),
		newGetProfilesCommand(a),
		newAddProfileCommand(a),
		newRemoveProfileCommand(a),
		newSelectProfileCommand(a),
		newImportCommand(a),
	)

	return cmd
}

func newCurrentProfileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "current-profile",
		Short: "Displays the current profile",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.OutWriter, a.Cfg.CurrentProfile)
		},
	}
}

func newUseProfileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:               "use-profile [NAME]",
		Short:             "Sets the current profile in the configuration",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.ValidProfileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := a.Cfg.SetCurrentProfile(name); err != nil {
				return fmt.Errorf("switch to profile %v: %w", name, err)
			}
			fmt.Fprintf(a.OutWriter, "Switched to profile \"%v\".\n", name)
			return nil
		},
	}
}

func newGetProfilesCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-profiles",
		Short: "Display profiles in the configuration file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := app.NewTabWriter(a.OutWriter)
			if !a.NoHeaderFlag {
				fmt.Fprintf(w, "  NAME\tENCODING\tERRORS\tOUTPUT\tINPUT\t\n")
			}
			for _, profile := range a.Cfg.Profiles {
				marker := "  "
				if profile.Name == a.Cfg.CurrentProfile {
					marker = "* "
				}
				fmt.Fprintf(w, "%s%s\t%v\t%v\t%v\t%v\t\n", marker, profile.Name,
					orDash(profile.Encoding.String()), profile.Errors, orDash(profile.Output), orDash(profile.Input))
			}
			w.Flush()
		},
	}
	a.AddNoHeadersFlag(cmd)
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func newAddProfileCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add-profile [NAME]",
		Short:   "Add profile",
		Example: "textcodec config add-profile legacy -e latin-1 --errors replace -o escaped",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := codec.ParseErrorMode(a.ErrorsFlag)
			if err != nil {
				return err
			}

			profile := &config.Profile{
				Name:     args[0],
				Encoding: a.EncodingFlag,
				Errors:   mode,
				Output:   string(a.OutputFlag),
				Input:    string(a.InputFlag),
			}
			if err := a.Cfg.AddProfile(profile); err != nil {
				return fmt.Errorf("could not add profile: %w", err)
			}
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintln(a.OutWriter, "Added profile.")
			return nil
		},
	}

	a.AddCodecFlags(cmd)
	a.AddOutputFlag(cmd)
	a.AddInputFlag(cmd)
	return cmd
}

func newRemoveProfileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:               "remove-profile [NAME]",
		Short:             "Remove profile",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.ValidProfileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Cfg.RemoveProfile(args[0]); err != nil {
				return fmt.Errorf("could not delete profile: %w", err)
			}
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintln(a.OutWriter, "Removed profile.")
			return nil
		},
	}
}

func newSelectProfileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "select-profile",
		Short: "Interactively select a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(a.Cfg.Profiles) == 0 {
				return fmt.Errorf("no profiles in %s", a.Cfg.Path())
			}

			var profileNames []string
			pos := 0
			for k, profile := range a.Cfg.Profiles {
				profileNames = append(profileNames, profile.Name)
				if profile.Name == a.Cfg.CurrentProfile {
					pos = k
				}
			}

			searcher := func(input string, index int) bool {
				name := strings.ReplaceAll(strings.ToLower(profileNames[index]), " ", "")
				input = strings.ReplaceAll(strings.ToLower(input), " ", "")
				return strings.Contains(name, input)
			}

			p := promptui.Select{
				Label:     "Select profile",
				Items:     profileNames,
				Searcher:  searcher,
				Size:      10,
				CursorPos: pos,
			}

			_, selected, err := p.Run()
			if err != nil {
				// User cancelled (e.g. Ctrl-C). Not an error.
				return nil
			}

			if err := a.Cfg.SetCurrentProfile(selected); err != nil {
				return fmt.Errorf("switch to profile %v: %w", selected, err)
			}
			fmt.Fprintf(a.OutWriter, "Switched to profile \"%v\".\n", selected)
			return nil
		},
	}
}

func newImportCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a profile from a .properties file into the config file",
		Long: `Import a profile from a Java-style .properties file. Recognized keys are
profile, encoding, errors, output and input. A profile with the same name is
replaced. The imported profile becomes current if none is selected.`,
		Example: "textcodec config import mainframe.properties",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := config.ImportProperties(args[0])
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", args[0], err)
			}

			if profile.Output != "" {
				if _, err := app.ParseOutputFormat(profile.Output); err != nil {
					return fmt.Errorf("failed to import %s: output: %w", args[0], err)
				}
			}
			if profile.Input != "" {
				if _, err := app.ParseInputFormat(profile.Input); err != nil {
					return fmt.Errorf("failed to import %s: input: %w", args[0], err)
				}
			}

			var found bool
			for i, p := range a.Cfg.Profiles {
				if p.Name == profile.Name {
					found = true
					a.Cfg.Profiles[i] = profile
					break
				}
			}

			if !found {
				a.Cfg.Profiles = append(a.Cfg.Profiles, profile)
			}
			if a.Cfg.CurrentProfile == "" {
				a.Cfg.CurrentProfile = profile.Name
			}
			if err = a.Cfg.Write(); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintf(a.OutWriter, "Imported profile %q.\n", profile.Name)
			return nil
		},
	}
}
