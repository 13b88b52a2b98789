package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/DivijChawla/DivijEncrypt/internal/logging"
)

func auditCommand() *cli.Command {
	return &cli.Command{
		Name:      "audit",
		Usage:     "Show recent audit events from the SQLite sink",
		UsageText: "divijctl audit [--db PATH] [--event TYPE] [-n COUNT] [--json]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "audit database `PATH`, defaults to log.audit_db"},
			&cli.StringFlag{Name: "event", Aliases: []string{"e"}, Usage: "only show events of this `TYPE`"},
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: logging.DefaultAuditLimit, Usage: "number of events"},
			&cli.BoolFlag{Name: "json", Usage: "print one JSON object per line"},
		},
		Action: func(c *cli.Context) error {
			path := c.String("db")
			if path == "" {
				path = envFrom(c).cfg.Log.AuditDB
			}
			if path == "" {
				return cli.Exit("no audit database: pass --db or set log.audit_db", 2)
			}
			events, err := logging.ReadAudit(c.Context, path, logging.EventType(c.String("event")), c.Int("count"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				for _, ev := range events {
					if err := enc.Encode(ev); err != nil {
						return err
					}
				}
				return nil
			}
			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tCOMPONENT\tEVENT\tOPERATION\tDECISION\tREASON")
			for _, ev := range events {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					ev.Timestamp.Format(time.RFC3339), ev.Component, ev.EventType, dash(ev.Operation), dash(string(ev.Decision)), ev.Reason)
			}
			return tw.Flush()
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
