package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/app"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/migrations"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			ran, err := migrations.Up(cmd.Context(), e.app.DB)
			if err != nil {
				return err
			}
			if len(ran) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending migrations.")
				return nil
			}
			for _, v := range ran {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", v)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show status of all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			list, err := migrations.StatusAll(cmd.Context(), e.app.DB)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-8s  %-30s  %-8s\n", "Version", "Name", "Status")
			for _, m := range list {
				status := "Pending"
				if m.Applied {
					status = "Applied"
				}
				fmt.Fprintf(out, "%-8s  %-30s  %-8s\n", m.Version, m.Name, status)
			}
			return nil
		},
	})
	return cmd
}

func billingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Manage billing months",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a billing month and issue its invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			month, _ := cmd.Flags().GetInt("month")
			year, _ := cmd.Flags().GetInt("year")
			link, _ := cmd.Flags().GetString("payment-link")
			if month == 0 {
				month = int(now.Month())
			}
			if year == 0 {
				year = now.Year()
			}

			e, err := connect(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			req := dtos.CreateBillingMonthRequest{Month: month, Year: year}
			if link != "" {
				req.PaymentLink = &link
			}
			resp, err := e.svc.Billing.CreateBillingMonth(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	create.Flags().Int("month", 0, "Month 1-12 (defaults to the current month)")
	create.Flags().Int("year", 0, "Year (defaults to the current year)")
	create.Flags().String("payment-link", "", "Payment link shown to tenants")

	cmd.AddCommand(create)
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print collection reports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "month <billing-month-id>",
		Short: "Collection report for one billing month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid billing month id: %w", err)
			}
			e, err := connect(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			rep, err := e.svc.Reports.BillingMonthReport(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, rep)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "dashboard",
		Short: "Occupancy and collection totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			return printJSON(cmd, e.svc.Reports.DashboardStats(cmd.Context()))
		},
	})
	return cmd
}

func remindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Send reminders",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "unpaid",
		Short: "Notify tenants with unpaid rent for the current month (in-app only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := e.svc.Notifications.SendUnpaidReminders(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reminded %d tenants.\n", n)
			return nil
		},
	})
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo units, tenants and an admin into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if _, err := migrations.Up(cmd.Context(), e.app.DB); err != nil {
				return err
			}
			return app.SeedAllTestData(
				cmd.Context(),
				e.repos.Profiles,
				e.svc.Units,
				e.svc.Tenants,
				e.svc.Billing,
				os.Getenv("SEED_ADMIN_PASSWORD"),
			)
		},
	}
}
