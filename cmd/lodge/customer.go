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

var customerCmd = &cobra.Command{
	Use:     "customer",
	Aliases: []string{"customers", "cust"},
	Short:   "Manage customers",
	Long:    `Create, list, modify and delete customers. A customer is identified by email.`,
}

var customerCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create or replace a customer",
	Long: `Create a customer. An existing customer with the same email is replaced.

Examples:
  lodge customer create cam@example.com --name "Cam Reyes" --phone 0123456789`,
	Args: cobra.ExactArgs(1),
	RunE: runCustomerCreate,
}

var customerDeleteCmd = &cobra.Command{
	Use:   "delete <email>",
	Short: "Delete a customer",
	Long: `Delete a customer. Their reservations are kept; 'lodge check' reports them
and 'lodge check --fix' removes them.`,
	Args:              cobra.ExactArgs(1),
	RunE:              runCustomerDelete,
	ValidArgsFunction: completeCustomerEmails,
}

var customerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers",
	Args:  cobra.NoArgs,
	RunE:  runCustomerList,
}

var customerModifyCmd = &cobra.Command{
	Use:   "modify <email> <field> <value>",
	Short: "Change the name or phone of a customer",
	Long: `Change the name or phone of a customer. Field names may be abbreviated
to any unique prefix.

Examples:
  lodge customer modify cam@example.com phone 9876543210`,
	Args:              cobra.ExactArgs(3),
	RunE:              runCustomerModify,
	ValidArgsFunction: completeCustomerModify,
}

var (
	customerName  string
	customerPhone string
)

func init() {
	customerCreateCmd.Flags().StringVar(&customerName, "name", "", "full name (required)")
	customerCreateCmd.Flags().StringVar(&customerPhone, "phone", "", "10-digit phone number (required)")

	customerCmd.AddCommand(customerCreateCmd, customerDeleteCmd, customerListCmd, customerModifyCmd)
	rootCmd.AddCommand(customerCmd)
}

func runCustomerCreate(cmd *cobra.Command, args []string) error {
	c := model.Customer{Name: customerName, Email: args[0], Phone: customerPhone}
	if err := cli.ValidateEmail("email", c.Email); err != nil {
		return err
	}
	if err := cli.ValidateNonEmpty("name", c.Name); err != nil {
		return err
	}
	if err := cli.ValidatePhone(c.Phone); err != nil {
		return err
	}

	s, err := openStorage()
	if err != nil {
		return err
	}
	defer s.Close()

	replaced, err := ops.CreateCustomer(s, c)
	if err != nil {
		return err
	}

	if replaced {
		fmt.Printf("Replaced customer %s\n", c.Email)
	} else {
		fmt.Printf("Created customer %s\n", c.Email)
	}
	return nil
}

func runCustomerDelete(cmd *cobra.Command, args []string) error {
	s, err := openStorage()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := ops.DeleteCustomer(s, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted customer %s\n", args[0])
	return nil
}

func runCustomerList(cmd *cobra.Command, args []string) error {
	s, err := openStorage()
	if err != nil {
		return err
	}
	defer s.Close()

	customers, err := ops.ListCustomers(s)
	if err != nil {
		if !record.IsCorrupt(err) {
			return err
		}
		cli.WriteWarning(os.Stderr, err)
	}
	cli.WriteCustomers(os.Stdout, customers)
	return nil
}

func runCustomerModify(cmd *cobra.Command, args []string) error {
	email, value := args[0], args[2]
	field, err := cli.MatchField(args[1], cli.CustomerFields)
	if err != nil {
		return err
	}

	var changes ops.CustomerChanges
	switch field {
	case "name":
		if err := cli.ValidateNonEmpty("name", value); err != nil {
			return err
		}
		changes.Name = &value
	case "phone":
		if err := cli.ValidatePhone(value); err != nil {
			return err
		}
		changes.Phone = &value
	}

	s, err := openStorage()
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := ops.ModifyCustomer(s, email, changes)
	if err != nil {
		return err
	}
	fmt.Printf("Updated customer %s: %s = %s\n", c.Email, field, value)
	return nil
}
