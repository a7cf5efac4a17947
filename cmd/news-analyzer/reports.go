package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/news-analyzer/internal/models"
	"github.com/pribylovaa/news-analyzer/internal/report"
	"github.com/pribylovaa/news-analyzer/internal/service"
)

func (a *app) reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print corpus summary and the most negative articles",
		Long: `Print corpus summary and the reports.most_negative most negative articles.
Ranking covers at most reports.scan_limit newest rows (default 100000).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			return a.withService(ctx, func(svc *service.Service) error {
				sum, err := svc.Summary(ctx)
				if err != nil {
					return err
				}

				items, err := svc.MostNegative(ctx, models.Query{Category: models.CategoryAll}, a.cfg.Reports.MostNegative)
				if err != nil {
					return err
				}

				p := report.NewPrinter(a.out)
				p.PrintSummary(sum)
				p.PrintMostNegative(items)
				return nil
			})
		},
	}
}

func (a *app) recentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent [category] [hours]",
		Short: "Print the most negative recent articles of a category",
		Long: `Print up to reports.recent most negative articles stored in the last [hours]
hours for [category]. Defaults: category "conflict" (alias of conflict/crisis), 24 hours.
A non-integer or non-positive hours value falls back to the default.
Ranking covers at most reports.scan_limit newest rows of the window (default 100000);
older rows beyond that cap are not considered.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			category := a.cfg.Reports.DefaultCategory
			if len(args) > 0 {
				category = args[0]
			}

			hours := a.cfg.Reports.DefaultHours
			if len(args) > 1 {
				hours = parseHoursArg(args[1], hours)
			}

			return a.withService(ctx, func(svc *service.Service) error {
				q := models.Query{Category: category, Hours: hours}
				items, err := svc.MostNegative(ctx, q, a.cfg.Reports.Recent)
				if err != nil {
					return err
				}

				report.NewPrinter(a.out).PrintRecent(category, hours, items)
				return nil
			})
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Dump all stored articles to CSV, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path := a.cfg.Reports.ExportFile
			if len(args) > 0 {
				path = args[0]
			}

			return a.withService(ctx, func(svc *service.Service) error {
				items, err := svc.All(ctx)
				if err != nil {
					return err
				}

				ok, err := report.ExportFile(path, items)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(a.out, "No articles to export.")
					return nil
				}

				fmt.Fprintf(a.out, "Exported %d articles to %s\n", len(items), path)
				return nil
			})
		},
	}
}

// parseHoursArg разбирает окно recent; нечисловое или неположительное значение -> def.
func parseHoursArg(raw string, def int) int {
	h, err := strconv.Atoi(raw)
	if err != nil || h <= 0 {
		return def
	}
	return h
}
