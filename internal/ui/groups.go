package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) groupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List customer groups",
		Long: `List the customer groups the canteen serves.

The configured group is marked with *. Set it with 'madvognen config'
or MADVOGNEN_GROUP_ID.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			groups, err := client.ListGroups(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing groups: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintln(out, "No customer groups found.")
				return nil
			}
			PrintGroups(out, groups, a.config.Menu.CustomerGroupID)
			return nil
		},
	}
}

func (a *App) appointmentsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "List upcoming appointments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			list, err := client.FetchAppointments(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching appointments: %w", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			PrintAppointments(cmd.OutOrStdout(), list)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the appointments as JSON")
	return cmd
}
