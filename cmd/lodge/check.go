package main

import (
	"fmt"

	"github.com/jacksmith/lodge/internal/cli"
	"github.com/jacksmith/lodge/internal/ops"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check stored data for problems",
	Long: `Check the stored collections for problems:

  - collections that cannot be parsed
  - reservations of customers that no longer exist
  - reservations at facilities that no longer exist
  - a customer holding more than one reservation at a facility

With --fix, an unreadable reservations collection is moved aside to
reservations.yaml.corrupt-<timestamp> and replaced by an empty one, and
reservations pointing at missing customers or facilities are removed.
Capacity is not adjusted. Damaged facilities or customers are rewritten by
the next create.

Exits with an error if problems remain.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var checkFix bool

func init() {
	checkCmd.Flags().BoolVar(&checkFix, "fix", false, "remove dangling reservations")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := openStorage()
	if err != nil {
		return err
	}
	defer s.Close()

	if checkFix {
		fixed, err := ops.Fix(s)
		for _, issue := range fixed {
			fmt.Printf("%s %s\n", cli.Green("fixed"), issue.Error())
		}
		if err != nil {
			return err
		}
	}

	issues, err := ops.Check(s)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		fmt.Println("No problems found.")
		return nil
	}

	for _, issue := range issues {
		label := cli.Red("error")
		if issue.Fixable {
			label = cli.Yellow("fixable")
		}
		fmt.Printf("%s %s\n", label, issue.Error())
	}
	return fmt.Errorf("%d problem(s) found", len(issues))
}
