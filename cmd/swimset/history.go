package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bft-labs/swimset/internal/adapters/fs"
	"github.com/bft-labs/swimset/internal/adapters/postgres"
	"github.com/bft-labs/swimset/internal/cliconfig"
	"github.com/bft-labs/swimset/internal/domain"
)

// printHistory lists stored records, preferring the database when one is configured.
func printHistory(ctx context.Context, w io.Writer, cfg cliconfig.Config) error {
	var (
		records []domain.Record
		err     error
	)
	if cfg.DatabaseURL != "" {
		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		if records, err = store.Records(ctx); err != nil {
			return err
		}
	} else {
		if records, err = fs.ReadRecordLog(cfg.RecordLogFile); err != nil {
			return err
		}
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "no records")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSESSION\tSET\tDISTANCE\tNAME\tTIME\tRANK")
	for _, r := range records {
		rank := "-"
		if r.Rank != nil {
			rank = fmt.Sprint(*r.Rank)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%dm %s\t%s\t%s\t%s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04"), r.SessionName, r.SetNumber,
			r.Distance, r.Stroke, r.AthleteName, r.Time, rank)
	}
	return tw.Flush()
}
