// Package cmd wires the delvex command line interface: flag parsing, config
// resolution, input loading, and output rendering.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/delvex/internal/formatter"
	"github.com/oakwood-commons/delvex/internal/limiter"
	"github.com/oakwood-commons/delvex/pkg/core"
	"github.com/oakwood-commons/delvex/pkg/loader"
	"github.com/oakwood-commons/delvex/pkg/logger"
	"github.com/oakwood-commons/delvex/pkg/settings"
)

// errShowHelp is returned by loadInputData when no input is provided and help should be shown.
var errShowHelp = errors.New("no input provided")

var (
	pathExprs      []string
	delimiter      string
	output         string
	strictPresence bool
	noColor        bool
	debug          bool
	outputWidth    int
	limitRecords   int
	offsetRecords  int
	tailRecords    int
	configFile     string

	rootCtx = context.Background()
)

var rootCmd = &cobra.Command{
	Use:   "delvex [file]",
	Short: "delvex - delve paths into YAML/JSON/TOML/CSV records",
	Long: `delvex resolves slash-delimited paths into structured documents and
emits the results as CSV, tables, JSON, or YAML. Arrays fan the remaining
path out across their elements, so one path can pull a column of values out
of a list of records.`,
	Example: "\n  delvex data.yaml -p items/name\n  delvex records.json -p id -p user/name -o table\n  cat feed.csv | delvex -p email\n",
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		var level int8 = 0
		if debug {
			level = -1
		}
		lgr := logger.Get(level)
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		rootCtx = logger.WithLogger(context.Background(), lgr)
	},
	Run: func(cmd *cobra.Command, args []string) {
		lgr := logger.FromContext(rootCtx)

		if err := validateLimitingFlags(); err != nil {
			fmt.Fprintf(os.Stderr, "record limiting error: %v\n", err)
			os.Exit(2)
		}
		if err := validateOutput(output); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}

		params := settings.NewCliParams()
		params.Delimiter = delimiter
		params.Output = output
		params.StrictPresence = strictPresence
		params.NoColor = noColor

		outputExplicit := cmd.Flags().Changed("output")
		cfgPath := resolveConfigPath(configFile)
		if cfgPath != "" {
			cfg, err := loadFileConfig(cfgPath)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			applyFileConfig(cfg, params, cmd.Flags())
			outputExplicit = outputExplicit || cfg.Output != nil
		}
		if len(pathExprs) == 0 && !outputExplicit {
			// Without paths the whole document is emitted; a document format
			// reads better than CSV there.
			params.Output = "yaml"
		}
		if err := validateOutput(params.Output); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}
		rootCtx = settings.IntoContext(rootCtx, params)

		records, singleDoc, err := loadInputData(args, *lgr)
		if err != nil {
			if errors.Is(err, errShowHelp) {
				_ = cmd.Help()
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		engineOpts := []core.Option{
			core.WithDelimiter(params.Delimiter),
			core.WithReporter(*lgr),
		}
		if params.StrictPresence {
			engineOpts = append(engineOpts, core.WithStrictPresence())
		}
		engine := core.New(engineOpts...)

		if err := printResult(engine, records, singleDoc, params); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

// validateOutput rejects unknown output formats.
func validateOutput(format string) error {
	switch format {
	case "csv", "table", "json", "yaml", "raw":
		return nil
	default:
		return fmt.Errorf("invalid output format %q (expected csv, table, json, yaml, or raw)", format)
	}
}

func validateLimitingFlags() error {
	cfg := limiter.Config{
		Limit:  limitRecords,
		Offset: offsetRecords,
		Tail:   tailRecords,
	}
	return cfg.Validate()
}

func limitConfig() limiter.Config {
	return limiter.Config{
		Limit:  limitRecords,
		Offset: offsetRecords,
		Tail:   tailRecords,
	}
}

// loadInputData reads the input document from a file argument or stdin and
// returns it as a record slice. singleDoc reports whether the input was one
// document rather than a record stream, so single results can be unwrapped.
func loadInputData(args []string, lgr logr.Logger) ([]interface{}, bool, error) {
	if len(args) > 0 {
		root, err := loader.LoadFileWithLogger(args[0], lgr)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load file %s: %w", args[0], err)
		}
		records, single := recordsFromRoot(root)
		return records, single, nil
	}

	stat, _ := os.Stdin.Stat()
	isPiped := (stat.Mode() & os.ModeCharDevice) == 0
	if !isPiped {
		return nil, false, errShowHelp
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read from stdin: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}

	input := string(data)
	if loader.IsLikelyCSV(input) {
		records, err := loader.LoadCSV(input)
		if err != nil {
			return nil, false, fmt.Errorf("failed to parse CSV input: %w", err)
		}
		return records, false, nil
	}

	docs, err := loader.LoadDataWithLogger(input, lgr)
	if err != nil {
		return nil, false, err
	}
	if len(docs) == 1 {
		records, single := recordsFromRoot(docs[0])
		return records, single, nil
	}
	return docs, false, nil
}

// recordsFromRoot lifts a loaded root into a record slice. Top-level arrays
// are treated as record streams; everything else is a single document.
func recordsFromRoot(root interface{}) ([]interface{}, bool) {
	if arr, ok := root.([]interface{}); ok {
		return arr, false
	}
	return []interface{}{root}, true
}

// printResult resolves the requested paths against the records and writes
// the result in the configured output format.
func printResult(engine *core.Engine, records []interface{}, singleDoc bool, params *settings.Run) error {
	limits := limitConfig()

	if len(pathExprs) == 0 {
		// No paths: emit the loaded document itself.
		var node interface{}
		if singleDoc {
			node = records[0]
		} else {
			node = records
		}
		node = limits.Apply(node)
		return printNode(node, params)
	}

	// Record limiting windows the record stream before resolution.
	if limits.IsActive() {
		if limited, ok := limits.Apply(records).([]interface{}); ok {
			records = limited
		}
	}

	switch params.Output {
	case "csv":
		rows, err := engine.ExtractRows(records, pathExprs)
		if err != nil {
			return err
		}
		fmt.Print(formatter.FormatRowsAsCSV(pathExprs, rows)) //nolint:forbidigo
		return nil
	case "table":
		rows, err := buildPathValueRows(engine, records)
		if err != nil {
			return err
		}
		width := outputWidth
		if width <= 0 {
			width = formatter.GetTerminalWidth()
		}
		fmt.Print(formatter.RenderRowsFitContent(rows, params.NoColor, width)) //nolint:forbidigo
		return nil
	case "raw":
		node, err := resolveNode(engine, records, singleDoc)
		if err != nil {
			return err
		}
		if arr, ok := node.([]interface{}); ok {
			for _, elem := range arr {
				fmt.Println(formatter.StringifyPreserveNewlines(elem)) //nolint:forbidigo
			}
		} else {
			fmt.Println(formatter.StringifyPreserveNewlines(node)) //nolint:forbidigo
		}
		return nil
	default:
		node, err := resolveNode(engine, records, singleDoc)
		if err != nil {
			return err
		}
		return printNode(node, params)
	}
}

// resolveNode produces a structured result: a single path yields its value
// per record, multiple paths a path-keyed object per record. Single-document
// input unwraps to the lone record's result.
func resolveNode(engine *core.Engine, records []interface{}, singleDoc bool) (interface{}, error) {
	var results []interface{}
	if len(pathExprs) == 1 {
		vals, err := engine.ResolveAll(records, pathExprs[0])
		if err != nil {
			return nil, err
		}
		results = vals
	} else {
		results = make([]interface{}, len(records))
		for i, record := range records {
			obj := make(map[string]interface{}, len(pathExprs))
			for _, expr := range pathExprs {
				val, err := engine.Resolve(record, expr)
				if err != nil {
					return nil, err
				}
				obj[expr] = val
			}
			results[i] = obj
		}
	}
	if singleDoc && len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

// buildPathValueRows flattens records into PATH/VALUE pairs for table output.
func buildPathValueRows(engine *core.Engine, records []interface{}) ([][]string, error) {
	var rows [][]string
	for _, record := range records {
		for _, expr := range pathExprs {
			val, err := engine.Resolve(record, expr)
			if err != nil {
				return nil, err
			}
			rows = append(rows, []string{expr, formatter.Stringify(val)})
		}
	}
	return rows, nil
}

// printNode writes a structured node in the configured document format.
func printNode(node interface{}, params *settings.Run) error {
	switch params.Output {
	case "csv":
		fmt.Print(formatter.FormatAsCSV(node)) //nolint:forbidigo
		return nil
	case "json":
		s, err := formatter.FormatJSON(node)
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		fmt.Print(s) //nolint:forbidigo
		return nil
	case "yaml", "raw":
		s, err := formatter.FormatYAML(node, formatter.YAMLFormatOptions{LiteralBlockStrings: true})
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		fmt.Print(s) //nolint:forbidigo
		return nil
	case "table":
		rows := nodeToPathValueRows(node)
		width := outputWidth
		if width <= 0 {
			width = formatter.GetTerminalWidth()
		}
		fmt.Print(formatter.RenderRowsFitContent(rows, params.NoColor, width)) //nolint:forbidigo
		return nil
	default:
		return fmt.Errorf("invalid output format %q", params.Output)
	}
}

// nodeToPathValueRows flattens a node into PATH/VALUE rows, one row per
// leaf, with slash-joined paths. Array elements use their index as a
// segment.
func nodeToPathValueRows(node interface{}) [][]string {
	var rows [][]string
	var walk func(prefix string, v interface{})
	walk = func(prefix string, v interface{}) {
		switch t := v.(type) {
		case map[string]interface{}:
			if len(t) == 0 {
				rows = append(rows, []string{prefix, "{}"})
				return
			}
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(joinPath(prefix, k), t[k])
			}
		case []interface{}:
			if len(t) == 0 {
				rows = append(rows, []string{prefix, "[]"})
				return
			}
			for i, elem := range t {
				walk(joinPath(prefix, strconv.Itoa(i)), elem)
			}
		default:
			rows = append(rows, []string{prefix, formatter.Stringify(v)})
		}
	}
	walk("", node)
	return rows
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "/" + segment
}

// cliVersionString builds a human-readable version string for CLI output and
// Cobra's --version flag.
func cliVersionString() string {
	info := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, go %s)",
		settings.CliBinaryName, info.BuildVersion, info.Commit, info.BuildTime, runtime.Version())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print delvex version",
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println(cliVersionString()) //nolint:forbidigo
		return nil
	},
}

func init() {
	rootCmd.Flags().StringArrayVarP(&pathExprs, "path", "p", nil, "path expression to resolve (repeatable); segments split on the delimiter, arrays broadcast")
	rootCmd.Flags().StringVarP(&delimiter, "delimiter", "d", "/", "path segment delimiter")
	rootCmd.Flags().StringVarP(&output, "output", "o", "csv", "output format: csv|table|json|yaml|raw")
	rootCmd.Flags().BoolVar(&strictPresence, "strict", false, "treat present-but-falsy values (false, 0, \"\") as found instead of missing")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().IntVar(&outputWidth, "width", 0, "output width in columns for table rendering")
	rootCmd.Flags().IntVar(&limitRecords, "limit", 0, "Limit total number of records displayed")
	rootCmd.Flags().IntVar(&offsetRecords, "offset", 0, "Skip the first N records")
	rootCmd.Flags().IntVar(&tailRecords, "tail", 0, "Show the last N records (mutually exclusive with --limit; ignores --offset)")
	rootCmd.Flags().StringVar(&configFile, "config-file", "", "path to a YAML config file")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
