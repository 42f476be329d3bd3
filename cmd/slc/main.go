package main

import (
	"fmt"
	"os"

	"github.com/mdouchement/sharedlist/internal/client"
	"github.com/mdouchement/sharedlist/internal/shoplist"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	filter  string
	debug   bool
	qty     string
	price   string
	name    string
	confirm bool
)

func main() {
	c := &cobra.Command{
		Use:          "slc",
		Short:        "Shared shopping list client",
		Version:      fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}
	c.AddCommand(configCmd)
	c.AddCommand(whoamiCmd)

	listCmd.Flags().StringVarP(&filter, "filter", "f", "all", "Filter items (all, pending or purchased)")
	listCmd.Flags().BoolVarP(&debug, "debug", "", false, "Dump the view")
	c.AddCommand(listCmd)

	addCmd.Flags().StringVarP(&qty, "qty", "q", "1", "Quantity")
	addCmd.Flags().StringVarP(&price, "price", "p", "", "Unit price")
	c.AddCommand(addCmd)

	c.AddCommand(toggleCmd)
	c.AddCommand(incCmd)
	c.AddCommand(decCmd)

	editCmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	editCmd.Flags().StringVarP(&price, "price", "p", "", "New unit price")
	c.AddCommand(editCmd)

	rmCmd.Flags().BoolVarP(&confirm, "yes", "y", false, "Do not ask for confirmation")
	c.AddCommand(rmCmd)

	c.AddCommand(uiCmd)

	if err := c.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Configure the sharedlist endpoint and API key",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Configure()
		},
	}

	whoamiCmd = &cobra.Command{
		Use:   "whoami [NAME]",
		Short: "Print or set the buyer name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return client.Whoami("")
			}
			return client.Whoami(args[0])
		},
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List items",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			r, err := client.NewRunner()
			if err != nil {
				return err
			}
			return r.List(c.Context(), filter, debug)
		},
	}

	addCmd = &cobra.Command{
		Use:   "add NAME",
		Short: "Add an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			r, err := client.NewRunner()
			if err != nil {
				return err
			}
			return r.Add(c.Context(), args[0], qty, price)
		},
	}

	toggleCmd = &cobra.Command{
		Use:   "toggle ID",
		Short: "Mark an item as purchased or pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			r, err := client.NewRunner()
			if err != nil {
				return err
			}
			return r.Toggle(c.Context(), args[0])
		},
	}

	incCmd = &cobra.Command{
		Use:   "inc ID",
		Short: "Increment the quantity of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			r, err := client.NewRunner()
			if err != nil {
				return err
			}
			return r.Adjust(c.Context(), args[0], 1)
		},
	}

	decCmd = &cobra.Command{
		Use:   "dec ID",
		Short: "Decrement the quantity of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			r, err := client.NewRunner()
			if err != nil {
				return err
			}
			return r.Adjust(c.Context(), args[0], -1)
		},
	}

	editCmd = &cobra.Command{
		Use:   "edit ID",
		Short: "Edit the name and/or the price of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			r, err := client.NewRunner()
			if err != nil {
				return err
			}

			var input shoplist.EditInput
			if c.Flags().Changed("name") {
				input.Name = &name
			}
			if c.Flags().Changed("price") {
				input.Price = &price
			}
			return r.Edit(c.Context(), args[0], input)
		},
	}

	rmCmd = &cobra.Command{
		Use:   "rm ID",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			r, err := client.NewRunner()
			if err != nil {
				return err
			}
			return r.Remove(c.Context(), args[0], confirm)
		},
	}

	uiCmd = &cobra.Command{
		Use:   "ui",
		Short: "Text-based shopping list application",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return client.UI(c.Context())
		},
	}
)
