// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mdhender/ratsum"
	"github.com/mdhender/ratsum/pipelines/stages"
	"github.com/mdhender/ratsum/renderer"
	store "github.com/mdhender/ratsum/stores/sqlite"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	// defaults when no input files are given on the command line
	defaultInputs = []string{"input01.txt", "input02.txt", "input03.txt"}
	defaultOutput = "output.txt"
)

func main() {
	addFlags := func(cmd *cobra.Command) error {
		cmd.PersistentFlags().Bool("debug", false, "log debugging information")
		cmd.PersistentFlags().Bool("log-with-default-flags", false, "log with default flags")
		cmd.PersistentFlags().Bool("log-with-shortfile", false, "log with short file name")
		cmd.PersistentFlags().Bool("log-with-timestamp", false, "log with timestamp")
		cmd.PersistentFlags().Bool("quiet", false, "log less information")
		cmd.PersistentFlags().Bool("show-version", false, "show version")
		cmd.PersistentFlags().Bool("verbose", false, "log more information")
		return nil
	}
	var cmdRoot = &cobra.Command{
		Use:   "ratsum",
		Short: "sum rational numbers from text files",
		Long:  `Read integers and a/b fractions from text files and write their exact sum.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logWithDefaultFlags, _ := cmd.Flags().GetBool("log-with-default-flags")
			logWithShortFileName, _ := cmd.Flags().GetBool("log-with-shortfile")
			logWithTimestamp, _ := cmd.Flags().GetBool("log-with-timestamp")
			logFlags := 0
			if logWithShortFileName {
				logFlags |= log.Lshortfile
			}
			if logWithTimestamp {
				logFlags |= log.Ltime
			}
			if logWithDefaultFlags {
				logFlags = log.LstdFlags
			}
			log.SetFlags(logFlags)

			// slog.Default writes through the log package, so it shares the flags above
			quiet, _ := cmd.Flags().GetBool("quiet")
			verbose, _ := cmd.Flags().GetBool("verbose")
			debug, _ := cmd.Flags().GetBool("debug")
			switch {
			case debug:
				slog.SetLogLoggerLevel(slog.LevelDebug)
			case quiet:
				slog.SetLogLoggerLevel(slog.LevelError)
			case verbose:
				slog.SetLogLoggerLevel(slog.LevelInfo)
			default:
				slog.SetLogLoggerLevel(slog.LevelWarn)
			}

			if showVersion, _ := cmd.Flags().GetBool("show-version"); showVersion {
				fmt.Printf("ratsum: version %q\n", ratsum.Version().Core())
			}

			return nil
		},
	}
	cmdRoot.AddCommand(cmdSum())
	cmdRoot.AddCommand(cmdTokens())
	cmdRoot.AddCommand(cmdHistory())
	cmdRoot.AddCommand(cmdInitDB())
	cmdRoot.AddCommand(cmdVersion())
	if err := addFlags(cmdRoot); err != nil {
		log.Fatal(err)
	}

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}

func cmdSum() *cobra.Command {
	outputFile := defaultOutput
	var dbPath string
	var header string
	crlf := false
	mkdir := false
	showWarnings := false
	showTiming := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVarP(&outputFile, "output", "o", outputFile, "write the sum to file")
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "record the run in the history database")
		cmd.Flags().StringVar(&header, "header", renderer.DefaultHeader, "label for the sum line")
		cmd.Flags().BoolVar(&crlf, "crlf", crlf, "end output lines with CR+LF")
		cmd.Flags().BoolVar(&mkdir, "mkdir", mkdir, "create the output directory if it is missing")
		cmd.Flags().BoolVar(&showWarnings, "show-warnings", showWarnings, "show skipped tokens with the source line")
		cmd.Flags().BoolVar(&showTiming, "show-timing", showTiming, "show elapsed time")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "sum [input-file...]",
		Short:        "sum the rational numbers in the input files",
		Long:         `Sum the rational numbers in the input files. With no arguments, reads ` + strings.Join(defaultInputs, ", ") + `.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			started := time.Now()
			quiet, _ := cmd.Flags().GetBool("quiet")
			verbose, _ := cmd.Flags().GetBool("verbose")
			if quiet {
				verbose = false
			}

			inputs := args
			if len(inputs) == 0 {
				inputs = defaultInputs
			}

			r, err := renderer.New(renderer.WithHeader(header), renderer.WithCRLF(crlf))
			if err != nil {
				return err
			}
			options := []stages.Option{
				stages.WithRenderer(r),
				stages.WithMkdir(mkdir),
			}
			if showWarnings && !quiet {
				options = append(options, stages.WithWarnings(os.Stderr))
			}
			if dbPath != "" {
				sqlStore, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: dbPath})
				if err != nil {
					return err
				}
				defer sqlStore.Close()
				options = append(options, stages.WithStore(sqlStore))
			}

			svc, err := stages.NewSumService(options...)
			if err != nil {
				return err
			}
			result, err := svc.Run(ctx, stages.SumRequest{Inputs: inputs, Output: outputFile})
			if err != nil {
				log.Printf("sum: %s: %v\n", stages.ErrorCode(err), err)
				return err
			}

			if verbose {
				log.Printf("sum: %s tokens: %s values: %s skipped\n",
					humanize.Comma(int64(result.Collection.Tokens)),
					humanize.Comma(int64(result.Collection.List.Len())),
					humanize.Comma(int64(len(result.Collection.Skipped))))
				if result.RunID != 0 {
					log.Printf("sum: recorded run %d in %s\n", result.RunID, dbPath)
				}
			}
			if !quiet {
				log.Printf("%s: wrote %s: sum %s\n", outputFile, humanize.Bytes(uint64(result.BytesWritten)), result.Sum)
			}
			if showTiming {
				log.Printf("sum: completed in %v\n", time.Since(started))
			}

			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdTokens() *cobra.Command {
	invalidOnly := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&invalidOnly, "invalid-only", invalidOnly, "only show tokens that would be skipped")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "tokens <input-file>",
		Short:        "show the tokens in an input file",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTokens(cmd.Context(), os.Stdout, afero.NewOsFs(), args[0], invalidOnly)
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

// printTokens writes one line per token in the file: position, index, kind,
// text and the parsed value or "skip".
func printTokens(ctx context.Context, w io.Writer, fs afero.Fs, path string, invalidOnly bool) error {
	input, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}
	for n, tok := range ratsum.Tokens(ctx, path, input, slog.Default()) {
		value, err := ratsum.ParseToken(tok)
		if invalidOnly && err == nil {
			continue
		}
		result := value.String()
		if err != nil {
			result = "skip"
		}
		_, _ = fmt.Fprintf(w, "%-25s %5d %-10s %-20q %s\n", fmt.Sprintf("%s:%d:%d:", path, tok.Line, tok.Column), n+1, tok.Kind, tok.Text, result)
	}
	return nil
}

func cmdHistory() *cobra.Command {
	var dbPath string
	limit := 20
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the history database")
		cmd.Flags().IntVar(&limit, "limit", limit, "number of runs to show (0 for all)")
		return cmd.MarkFlagRequired("db")
	}
	var cmd = &cobra.Command{
		Use:          "history",
		Short:        "list recorded runs",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sqlStore, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: dbPath})
			if err != nil {
				return err
			}
			defer sqlStore.Close()

			runs, err := sqlStore.GetRuns(ctx, limit)
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Run", "When", "Inputs", "Output", "Values", "Skipped", "Sum"})
			for _, run := range runs {
				table.Append([]string{
					fmt.Sprintf("%d", run.ID),
					humanize.Time(run.CreatedAt),
					strings.Join(run.Inputs, " "),
					run.Output,
					humanize.Comma(int64(run.Elements)),
					humanize.Comma(int64(run.Skipped)),
					run.Sum,
				})
			}
			table.Render()
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdInitDB() *cobra.Command {
	var dbPath string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the new history database")
		return cmd.MarkFlagRequired("db")
	}
	var cmd = &cobra.Command{
		Use:          "init-db",
		Short:        "create the history database",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.InitDatabase(dbPath); err != nil {
				return err
			}
			log.Printf("%s: created history database\n", dbPath)
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdVersion() *cobra.Command {
	showBuildInfo := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&showBuildInfo, "build-info", showBuildInfo, "show build information")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "version",
		Short: "display the application's version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Println(ratsum.Version().String())
				return nil
			}
			fmt.Println(ratsum.Version().Core())
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
