package main

import (
	"os"

	"github.com/jacksmith/lodge/internal/cli"
	"github.com/jacksmith/lodge/internal/ops"
	"github.com/jacksmith/lodge/internal/record"
	"github.com/spf13/cobra"
)

var reservationsCmd = &cobra.Command{
	Use:   "reservations",
	Short: "List reservations",
	Long: `List reservations in the order they were made.

Examples:
  lodge reservations
  lodge reservations --customer cam@example.com
  lodge reservations --facility "Harbor Inn"`,
	Args: cobra.NoArgs,
	RunE: runReservations,
}

var (
	reservationsCustomer string
	reservationsFacility string
)

func init() {
	reservationsCmd.Flags().StringVar(&reservationsCustomer, "customer", "", "only reservations of this customer email")
	reservationsCmd.Flags().StringVar(&reservationsFacility, "facility", "", "only reservations at this facility")
	reservationsCmd.RegisterFlagCompletionFunc("customer", completeCustomerEmails)
	reservationsCmd.RegisterFlagCompletionFunc("facility", completeFacilityNames)
	rootCmd.AddCommand(reservationsCmd)
}

func runReservations(cmd *cobra.Command, args []string) error {
	s, err := openStorage()
	if err != nil {
		return err
	}
	defer s.Close()

	reservations, err := ops.ListReservations(s, ops.ReservationFilter{
		CustomerEmail: reservationsCustomer,
		FacilityName:  reservationsFacility,
	})
	if err != nil {
		if !record.IsCorrupt(err) {
			return err
		}
		cli.WriteWarning(os.Stderr, err)
	}
	cli.WriteReservations(os.Stdout, reservations)
	return nil
}
