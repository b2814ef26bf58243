package main

import (
	"os"
	"strings"

	"github.com/jacksmith/lodge/internal/cli"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for lodge.

To load completions:

Bash:
  $ source <(lodge completion bash)

Zsh:
  $ lodge completion zsh > "${fpath[1]}/_lodge"

Fish:
  $ lodge completion fish | source
`,
}

func init() {
	completionCmd.AddCommand(
		&cobra.Command{
			Use:   "bash",
			Short: "Generate bash completion script",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return rootCmd.GenBashCompletion(os.Stdout)
			},
		},
		&cobra.Command{
			Use:   "zsh",
			Short: "Generate zsh completion script",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return rootCmd.GenZshCompletion(os.Stdout)
			},
		},
		&cobra.Command{
			Use:   "fish",
			Short: "Generate fish completion script",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return rootCmd.GenFishCompletion(os.Stdout, true)
			},
		},
	)
	rootCmd.AddCommand(completionCmd)
}

// completeFacilityNames completes facility names, described by location.
func completeFacilityNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	s, err := openStorage()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer s.Close()

	facilities, _ := s.Facilities().LoadAll()
	var completions []string
	for _, f := range facilities {
		if strings.HasPrefix(strings.ToLower(f.Name), strings.ToLower(toComplete)) {
			completions = append(completions, f.Name+"\t"+cli.Truncate(f.Location, 40))
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeCustomerEmails completes customer emails, described by name.
func completeCustomerEmails(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	s, err := openStorage()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer s.Close()

	customers, _ := s.Customers().LoadAll()
	var completions []string
	for _, c := range customers {
		if strings.HasPrefix(strings.ToLower(c.Email), strings.ToLower(toComplete)) {
			completions = append(completions, c.Email+"\t"+cli.Truncate(c.Name, 40))
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeCustomerThenFacility completes a customer email for the first
// argument and a facility name for the second.
func completeCustomerThenFacility(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return completeCustomerEmails(cmd, args, toComplete)
	case 1:
		return completeFacilityNames(cmd, args, toComplete)
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func completeFacilityModify(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return completeFacilityNames(cmd, args, toComplete)
	case 1:
		return cli.FacilityFields, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func completeCustomerModify(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return completeCustomerEmails(cmd, args, toComplete)
	case 1:
		return cli.CustomerFields, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
