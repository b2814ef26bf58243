package main

import (
	"fmt"

	"github.com/jacksmith/lodge/internal/cli"
	"github.com/jacksmith/lodge/internal/ops"
	"github.com/spf13/cobra"
)

var reserveCmd = &cobra.Command{
	Use:   "reserve <customer-email> <facility-name>",
	Short: "Reserve one unit at a facility",
	Long: `Reserve one unit of capacity at a facility for a customer.

Fails without changing anything if the customer or facility does not exist,
the facility is full, or the customer already holds a reservation there
(unless allow_duplicate_reservations is set in .lodgeconfig.yaml).

Examples:
  lodge reserve cam@example.com "Harbor Inn"`,
	Args:              cobra.ExactArgs(2),
	RunE:              runReserve,
	ValidArgsFunction: completeCustomerThenFacility,
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <customer-email> <facility-name>",
	Short: "Cancel a reservation",
	Long: `Cancel a customer's reservation at a facility and return one unit of
capacity. If the facility has since been deleted the reservation is still
removed.

Examples:
  lodge cancel cam@example.com "Harbor Inn"`,
	Args:              cobra.ExactArgs(2),
	RunE:              runCancel,
	ValidArgsFunction: completeCustomerThenFacility,
}

func init() {
	rootCmd.AddCommand(reserveCmd, cancelCmd)
}

func runReserve(cmd *cobra.Command, args []string) error {
	email, facility := args[0], args[1]
	if err := cli.ValidateEmail("customer email", email); err != nil {
		return err
	}

	s, err := openStorage()
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := ops.CreateReservation(s, email, facility); err != nil {
		return err
	}

	fmt.Printf("Reserved %s for %s\n", facility, email)
	if f, err := ops.GetFacility(s, facility); err == nil {
		fmt.Printf("%s remaining: %s\n", facility, cli.CapacityLabel(f.Capacity))
	}
	return nil
}

func runCancel(cmd *cobra.Command, args []string) error {
	email, facility := args[0], args[1]

	s, err := openStorage()
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := ops.CancelReservation(s, email, facility)
	if err != nil {
		return err
	}

	fmt.Printf("Cancelled reservation of %s at %s", email, facility)
	if result.Removed > 1 {
		fmt.Printf(" (%d records removed)", result.Removed)
	}
	fmt.Println()
	if result.CapacityRestored {
		fmt.Printf("%s now has %d available\n", facility, result.Capacity)
	} else {
		fmt.Println(cli.Gray(fmt.Sprintf("%s no longer exists; no capacity restored", facility)))
	}
	return nil
}
