package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/lodge/internal/cli"
	"github.com/jacksmith/lodge/internal/model"
	"github.com/jacksmith/lodge/internal/ops"
	"github.com/jacksmith/lodge/internal/record"
	"github.com/spf13/cobra"
)

var facilityCmd = &cobra.Command{
	Use:     "facility",
	Aliases: []string{"facilities", "fac"},
	Short:   "Manage facilities",
	Long: `Create, list, modify and delete lodging facilities.

A facility is identified by its name. Its capacity is the number of units
still available to reserve.`,
}

var facilityCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create or replace a facility",
	Long: `Create a facility. An existing facility with the same name is replaced.

Examples:
  lodge facility create "Harbor Inn" --location Lisbon --capacity 12 --email desk@harbor.pt`,
	Args: cobra.ExactArgs(1),
	RunE: runFacilityCreate,
}

var facilityDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a facility",
	Long: `Delete a facility. Reservations at it are kept; 'lodge check' reports them
and 'lodge check --fix' removes them.`,
	Args:              cobra.ExactArgs(1),
	RunE:              runFacilityDelete,
	ValidArgsFunction: completeFacilityNames,
}

var facilityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List facilities",
	Args:  cobra.NoArgs,
	RunE:  runFacilityList,
}

var facilityModifyCmd = &cobra.Command{
	Use:   "modify <name> <field> <value>",
	Short: "Change one field of a facility",
	Long: `Change the location, capacity or contact email of a facility.
Field names may be abbreviated to any unique prefix.

Examples:
  lodge facility modify "Harbor Inn" capacity 20
  lodge facility modify "Harbor Inn" loc Porto`,
	Args:              cobra.ExactArgs(3),
	RunE:              runFacilityModify,
	ValidArgsFunction: completeFacilityModify,
}

var (
	facilityLocation string
	facilityCapacity int
	facilityEmail    string
)

func init() {
	facilityCreateCmd.Flags().StringVar(&facilityLocation, "location", "", "where the facility is (required)")
	facilityCreateCmd.Flags().IntVar(&facilityCapacity, "capacity", 0, "number of units available")
	facilityCreateCmd.Flags().StringVar(&facilityEmail, "email", "", "contact email (required)")

	facilityCmd.AddCommand(facilityCreateCmd, facilityDeleteCmd, facilityListCmd, facilityModifyCmd)
	rootCmd.AddCommand(facilityCmd)
}

func runFacilityCreate(cmd *cobra.Command, args []string) error {
	f := model.Facility{
		Name:         args[0],
		Location:     facilityLocation,
		Capacity:     facilityCapacity,
		ContactEmail: facilityEmail,
	}
	if err := validateFacility(f); err != nil {
		return err
	}

	s, err := openStorage()
	if err != nil {
		return err
	}
	defer s.Close()

	replaced, err := ops.CreateFacility(s, f)
	if err != nil {
		return err
	}

	if replaced {
		fmt.Printf("Replaced facility %s\n", f.Name)
	} else {
		fmt.Printf("Created facility %s\n", f.Name)
	}
	return nil
}

func runFacilityDelete(cmd *cobra.Command, args []string) error {
	s, err := openStorage()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := ops.DeleteFacility(s, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted facility %s\n", args[0])
	return nil
}

func runFacilityList(cmd *cobra.Command, args []string) error {
	s, err := openStorage()
	if err != nil {
		return err
	}
	defer s.Close()

	facilities, err := ops.ListFacilities(s)
	if err != nil {
		if !record.IsCorrupt(err) {
			return err
		}
		cli.WriteWarning(os.Stderr, err)
	}
	cli.WriteFacilities(os.Stdout, facilities)
	return nil
}

func runFacilityModify(cmd *cobra.Command, args []string) error {
	name, value := args[0], args[2]
	field, err := cli.MatchField(args[1], cli.FacilityFields)
	if err != nil {
		return err
	}

	var changes ops.FacilityChanges
	switch field {
	case "location":
		if err := cli.ValidateNonEmpty("location", value); err != nil {
			return err
		}
		changes.Location = &value
	case "capacity":
		n, err := cli.ParseCapacity(value)
		if err != nil {
			return err
		}
		changes.Capacity = &n
	case "email":
		if err := cli.ValidateEmail("email", value); err != nil {
			return err
		}
		changes.ContactEmail = &value
	}

	s, err := openStorage()
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := ops.ModifyFacility(s, name, changes)
	if err != nil {
		return err
	}
	fmt.Printf("Updated facility %s: %s = %s\n", f.Name, field, value)
	return nil
}

func validateFacility(f model.Facility) error {
	if err := cli.ValidateNonEmpty("name", f.Name); err != nil {
		return err
	}
	if err := cli.ValidateNonEmpty("location", f.Location); err != nil {
		return err
	}
	if f.Capacity < 0 {
		return &cli.ValidationError{Field: "capacity", Message: "must not be negative"}
	}
	return cli.ValidateEmail("email", f.ContactEmail)
}
