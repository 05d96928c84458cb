package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/repository"
	"weld-oee/backend/internal/service"
)

var reportFlags struct {
	from   string
	to     string
	worker uint
	xlsx   string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the OEE report for a date range",
	Example: `  oeectl report --from 2024-03-01 --to 2024-03-31
  oeectl report --from 2024-03-01 --to 2024-03-31 --worker 4 --xlsx march.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := reportFilter()
		if err != nil {
			return err
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		repo := repository.NewRepository(e.db)
		reports := service.NewReportService(&e.cfg.Tracking, repo, e.logger)

		if reportFlags.xlsx != "" {
			exports := service.NewExportService(&e.cfg.Tracking, reports, repo, e.logger)
			buf, _, err := exports.ExportReport(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if err := os.WriteFile(reportFlags.xlsx, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", reportFlags.xlsx, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", reportFlags.xlsx)
			return nil
		}

		report, err := reports.GenerateReport(cmd.Context(), filter)
		if err != nil {
			return err
		}
		return printReport(cmd.OutOrStdout(), report)
	},
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.from, "from", "", "first day, YYYY-MM-DD")
	f.StringVar(&reportFlags.to, "to", "", "last day, YYYY-MM-DD")
	f.UintVar(&reportFlags.worker, "worker", 0, "limit to one worker id")
	f.StringVar(&reportFlags.xlsx, "xlsx", "", "write an Excel workbook instead of printing")
	reportCmd.MarkFlagRequired("from")
	reportCmd.MarkFlagRequired("to")
}

func reportFilter() (dto.ReportFilter, error) {
	from, err := time.Parse("2006-01-02", reportFlags.from)
	if err != nil {
		return dto.ReportFilter{}, fmt.Errorf("--from must be YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", reportFlags.to)
	if err != nil {
		return dto.ReportFilter{}, fmt.Errorf("--to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return dto.ReportFilter{}, fmt.Errorf("--to is before --from")
	}
	filter := dto.ReportFilter{From: &from, To: &to}
	if reportFlags.worker != 0 {
		w := reportFlags.worker
		filter.WorkerID = &w
	}
	return filter, nil
}

func printReport(out io.Writer, r *dto.Report) error {
	fmt.Fprintf(out, "OEE report %s .. %s\n\n", r.From, r.To)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "WORKER\tITEMS\tACTUAL\tSTANDARD\tAVAIL\tPERF\tQUAL\tOEE\t")
	for _, w := range r.Workers {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			w.WorkerName, w.Items, w.TotalActual, w.TotalStandard,
			w.Availability, w.Performance, w.Quality, w.OEE)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := r.Summary
	fmt.Fprintf(out, "\n%d items by %d workers over %d days, %d modules\n",
		s.Items, s.Workers, s.ProductionDays, s.Modules)
	fmt.Fprintf(out, "actual %.2f min, standard %.2f min, average efficiency %.2f\n",
		s.TotalActual, s.TotalStandard, s.AverageEfficiency)
	for _, c := range s.StoppagesByCategory {
		fmt.Fprintf(out, "stoppages %-12s %3d  %.2f min\n", c.Category, c.Count, c.TotalMinutes)
	}
	return nil
}
