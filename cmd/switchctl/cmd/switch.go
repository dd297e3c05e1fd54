package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) ownerEmail() (string, error) {
	email := strings.TrimSpace(a.cfg.Email)
	if email == "" {
		return "", errNoEmail
	}
	return email, nil
}

func newListCmd(a *app) *cobra.Command {
	var showID bool
	c := &cobra.Command{
		Use:   "list",
		Short: "List your switches, soonest expiry first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := a.ownerEmail()
			if err != nil {
				return err
			}
			list, err := a.uc.ListSwitches(cmd.Context(), email)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No switches yet.")
				return nil
			}
			writeSwitchTable(cmd.OutOrStdout(), list, a.now(), showID)
			return nil
		},
	}
	c.Flags().BoolVarP(&showID, "show-id", "u", false, "show switch ids")
	return c
}

func newGetCmd(a *app) *cobra.Command {
	var id string
	c := &cobra.Command{
		Use:   "get",
		Short: "Show one switch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := a.ownerEmail()
			if err != nil {
				return err
			}
			sw, err := a.uc.GetSwitch(cmd.Context(), email, id)
			if err != nil {
				return err
			}
			writeSwitchDetail(cmd.OutOrStdout(), sw, a.now())
			return nil
		},
	}
	c.Flags().StringVarP(&id, "id", "i", "", "switch id")
	_ = c.MarkFlagRequired("id")
	return c
}

func newCreateCmd(a *app) *cobra.Command {
	var (
		name     string
		content  string
		interval int
	)
	c := &cobra.Command{
		Use:   "create",
		Short: "Create a switch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := a.ownerEmail()
			if err != nil {
				return err
			}
			sw, res, err := a.uc.CreateSwitch(cmd.Context(), email, name, content, interval)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Notice)
			if sw != nil && sw.ID != "" {
				fmt.Fprintln(out, "id:", sw.ID)
			}
			return nil
		},
	}
	disableFlagSorting(c)
	c.Flags().StringVarP(&name, "name", "n", "", "switch name")
	c.Flags().StringVarP(&content, "content", "c", "", "message released when the switch expires")
	c.Flags().IntVarP(&interval, "interval", "d", 1, "check-in interval in days")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("content")
	return c
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		id       string
		name     string
		content  string
		interval int
		active   bool
	)
	c := &cobra.Command{
		Use:   "update",
		Short: "Change a switch; omitted fields keep their current value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := a.ownerEmail()
			if err != nil {
				return err
			}
			cur, err := a.uc.GetSwitch(cmd.Context(), email, id)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("name") {
				name = cur.Name
			}
			if !flags.Changed("content") {
				content = cur.Content
			}
			if !flags.Changed("interval") {
				interval = cur.Interval
			}
			if !flags.Changed("active") {
				active = cur.IsActive
			}
			_, res, err := a.uc.UpdateSwitch(cmd.Context(), email, id, name, content, interval, active)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Notice)
			return nil
		},
	}
	disableFlagSorting(c)
	c.Flags().StringVarP(&id, "id", "i", "", "switch id")
	c.Flags().StringVarP(&name, "name", "n", "", "new name")
	c.Flags().StringVarP(&content, "content", "c", "", "new content")
	c.Flags().IntVarP(&interval, "interval", "d", 0, "new check-in interval in days")
	c.Flags().BoolVarP(&active, "active", "a", false, "whether the switch is armed (--active=false disarms)")
	_ = c.MarkFlagRequired("id")
	return c
}

func newCheckinCmd(a *app) *cobra.Command {
	var id string
	c := &cobra.Command{
		Use:   "checkin",
		Short: "Check in, pushing the switch's expiry out by its interval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := a.ownerEmail()
			if err != nil {
				return err
			}
			sw, res, err := a.uc.CheckinSwitch(cmd.Context(), email, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Notice)
			if sw != nil && !sw.ExpirationDatetime.IsZero() {
				fmt.Fprintln(out, "expires:", formatExpires(sw, a.now()))
			}
			return nil
		},
	}
	c.Flags().StringVarP(&id, "id", "i", "", "switch id")
	_ = c.MarkFlagRequired("id")
	return c
}

func newDeleteCmd(a *app) *cobra.Command {
	var (
		id  string
		yes bool
	)
	c := &cobra.Command{
		Use:   "delete",
		Short: "Delete a switch after confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := a.ownerEmail()
			if err != nil {
				return err
			}
			confirmer := deleteConfirmer(yes, cmd.InOrStdin(), cmd.ErrOrStderr())
			res, err := a.uc.DeleteSwitch(cmd.Context(), email, id, confirmer)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Notice)
			return nil
		},
	}
	c.Flags().StringVarP(&id, "id", "i", "", "switch id")
	c.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	_ = c.MarkFlagRequired("id")
	return c
}
