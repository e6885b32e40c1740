package cli

import (
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hupe1980/semconvert/internal/filter"
	"github.com/hupe1980/semconvert/internal/rdf"
	"github.com/hupe1980/semconvert/internal/render"
)

func newCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for semconvert.

To load completions:

Bash:
  $ source <(semconvert completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ semconvert completion bash > /etc/bash_completion.d/semconvert

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ semconvert completion zsh > "${fpath[1]}/_semconvert"

Fish:
  $ semconvert completion fish > ~/.config/fish/completions/semconvert.fish

PowerShell:
  PS> semconvert completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> semconvert completion powershell > semconvert.ps1
  # and source this file from your PowerShell profile.
`,
		// Completion needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}

			return nil
		},
	}

	return cmd
}

// registerFormatCompletions completes --from, --to and --profile values.
func registerFormatCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("from", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return rdfFormatCompletions(), cobra.ShellCompDirectiveNoFileComp
	})

	_ = cmd.RegisterFlagCompletionFunc("to", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return outputFormatCompletions(), cobra.ShellCompDirectiveNoFileComp
	})

	_ = cmd.RegisterFlagCompletionFunc("profile", func(c *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return profileCompletions(c), cobra.ShellCompDirectiveNoFileComp
	})
}

func rdfFormatCompletions() []string {
	var out []string

	for _, info := range rdf.Formats() {
		out = append(out, info.MIMEType+"\t"+info.Description)
	}

	return out
}

func outputFormatCompletions() []string {
	reg := render.DefaultRegistry()

	var out []string

	for _, id := range reg.Formats() {
		out = append(out, id+"\t"+reg.Description(id))
	}

	return append(out, rdfFormatCompletions()...)
}

// profileCompletions lists the built-in profiles plus those of the file
// named by --config. Completion runs without the config pre-run hook.
func profileCompletions(cmd *cobra.Command) []string {
	names := filter.BuiltinProfileNames()

	flag := cmd.Flag("config")
	if flag == nil || flag.Value.String() == "" {
		return names
	}

	path := flag.Value.String()

	custom, err := filter.LoadCustomProfiles(path)
	if err != nil {
		return names
	}

	for _, name := range slices.Sorted(maps.Keys(custom)) {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	return names
}
