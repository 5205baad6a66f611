package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/careflow/internal/app"
	"github.com/hyperifyio/careflow/internal/metrics"
	"github.com/hyperifyio/careflow/internal/report"
	"github.com/hyperifyio/careflow/internal/samples"
	"github.com/hyperifyio/careflow/internal/watch"
	"github.com/hyperifyio/careflow/internal/web"
	"github.com/hyperifyio/careflow/internal/workflow"
)

func newProcessCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [file|-]",
		Short: "Process one note and print or write the report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(c.cfg.Format)
			if err != nil {
				return err
			}
			a, err := c.newApp(cmd.Context())
			if err != nil {
				return err
			}
			opts := a.DefaultOptions()
			var r report.Report
			if len(args) == 0 || args[0] == "-" {
				data, rerr := io.ReadAll(c.stdin)
				if rerr != nil {
					return fmt.Errorf("read stdin: %w", rerr)
				}
				opts.Source = "stdin"
				r, err = a.Process(cmd.Context(), string(data), opts)
			} else {
				r, err = a.ProcessFile(cmd.Context(), args[0], opts)
			}
			if err != nil {
				return err
			}
			if c.cfg.OutputPath != "" {
				if err := app.WriteReport(c.cfg.OutputPath, r, format); err != nil {
					return err
				}
				fmt.Fprintf(c.stderr, "wrote %s\n", c.cfg.OutputPath)
				return nil
			}
			return report.Write(c.stdout, r, format)
		},
	}
	f := cmd.Flags()
	f.StringVar(&c.flags.Format, "format", app.DefaultFormat, "Output format: markdown, json, pdf or docx")
	f.StringVar(&c.flags.OutputPath, "out", "", "Write the report to this path instead of stdout")
	f.BoolVar(&c.flags.DisableSummary, "no-summary", false, "Skip the summary")
	f.BoolVar(&c.flags.DisableSOAP, "no-soap", false, "Skip the SOAP note")
	f.BoolVar(&c.flags.DisableWorkflow, "no-workflow", false, "Skip workflow suggestions")
	f.BoolVar(&c.flags.UseLLM, "llm", false, "Add drafted documentation from the configured LLM")
	return cmd
}

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web interface and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.newApp(cmd.Context(), app.WithMetrics(metrics.New()))
			if err != nil {
				return err
			}
			return web.New(a).Start(cmd.Context(), c.cfg.Addr)
		},
	}
	cmd.Flags().StringVar(&c.flags.Addr, "addr", app.DefaultAddr, "Listen address")
	return cmd
}

func newWatchCmd(c *cli) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process notes dropped into an inbox directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("out") {
				c.cfg.WatchOut = out
			}
			if strings.TrimSpace(c.cfg.WatchIn) == "" || strings.TrimSpace(c.cfg.WatchOut) == "" {
				return errors.New("watch: --in and --out are required (or watch.in/watch.out in the config file)")
			}
			format, err := report.ParseFormat(c.cfg.Format)
			if err != nil {
				return err
			}
			a, err := c.newApp(cmd.Context())
			if err != nil {
				return err
			}
			return watch.New(a, c.cfg.WatchIn, c.cfg.WatchOut, format).Run(cmd.Context())
		},
	}
	f := cmd.Flags()
	f.StringVar(&c.flags.WatchIn, "in", "", "Inbox directory")
	f.StringVar(&out, "out", "", "Outbox directory for reports")
	f.StringVar(&c.flags.Format, "format", app.DefaultFormat, "Report format: markdown, json, pdf or docx")
	return cmd
}

func newSamplesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "samples [name]",
		Short: "List the built-in sample notes or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				s, ok := samples.Get(args[0])
				if !ok {
					fmt.Fprintf(c.stderr, "unknown sample %q, showing %s\n", args[0], s.Name)
				}
				_, err := fmt.Fprintln(c.stdout, s.Text)
				return err
			}
			tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			for _, s := range samples.All() {
				fmt.Fprintf(tw, "%s\t%s\n", s.Name, s.Title)
			}
			return tw.Flush()
		},
	}
}

func newRemindersCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reminders",
		Short: "Print the general documentation reminders",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, r := range workflow.DocumentationReminders() {
				if _, err := fmt.Fprintf(c.stdout, "- %s\n", r); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintln(c.stdout, app.VersionString())
			return err
		},
	}
}

