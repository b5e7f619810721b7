package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/yamitzky/wkfmla-go/wkfmla"
)

var version = "dev"

type outputFormat int

const (
	formatText outputFormat = iota
	formatInstr
)

type options struct {
	format outputFormat
	dump   bool
	strict bool
	jobs   int
}

// formulaLine is one hex-encoded formula read from the input.
type formulaLine struct {
	lineno int
	blob   []byte
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wkfmla", flag.ContinueOnError)
	fs.SetOutput(stderr)

	showVersion := fs.Bool("v", false, "show version")
	fs.BoolVar(showVersion, "version", false, "show version")

	variantName := fs.String("variant", "", "format variant: "+strings.Join(wkfmla.VariantNames(), ", "))
	profilePath := fs.String("profile", "", "YAML decode profile")
	detectPath := fs.String("detect", "", "pick the variant from this worksheet file's BOF record")

	col := fs.Int("col", -1, "column of the formula cell (0-based)")
	row := fs.Int("row", -1, "row of the formula cell (0-based)")
	sheet := fs.Int("sheet", -1, "sheet of the formula cell (0-based)")

	formatFlag := fs.String("format", "text", "output format, 'text' or 'instr'")
	dump := fs.Bool("dump", false, "hex dump each formula before decoding")
	strict := fs.Bool("strict", false, "exit with status 1 if any formula fails to decode")
	debug := fs.Bool("debug", false, "log opcode traces")
	jobs := fs.Int("j", runtime.NumCPU(), "number of formulas decoded in parallel")

	fs.Usage = func() {
		fmt.Fprint(stderr, usageText())
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version)
		return 0
	}

	rest := fs.Args()
	if len(rest) != 1 {
		fs.Usage()
		return 2
	}

	format, err := parseFormat(*formatFlag)
	if err != nil {
		fmt.Fprintf(stderr, "invalid format: %v\n", err)
		return 2
	}

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	profile := &wkfmla.Profile{Variant: wkfmla.VariantWK1.Name}
	if *profilePath != "" {
		profile, err = wkfmla.LoadProfile(*profilePath)
		if err != nil {
			fmt.Fprintf(stderr, "invalid profile: %v\n", err)
			return 2
		}
	}
	if *detectPath != "" {
		v, err := wkfmla.InspectVariant(*detectPath, nil)
		if err != nil {
			fmt.Fprintf(stderr, "cannot detect variant: %v\n", err)
			return 2
		}
		profile.Variant = v.Name
	}
	if *variantName != "" {
		profile.Variant = *variantName
	}
	if *col >= 0 {
		profile.Position.Column = *col
	}
	if *row >= 0 {
		profile.Position.Row = *row
	}
	if *sheet >= 0 {
		profile.Position.Sheet = *sheet
	}

	decodeOpts, err := profile.Options(logger)
	if err != nil {
		fmt.Fprintf(stderr, "invalid variant: %v\n", err)
		return 2
	}

	var in io.Reader = stdin
	if rest[0] != "-" {
		f, err := os.Open(rest[0])
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		defer f.Close()
		in = f
	}

	lines, err := readFormulas(in)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	opts := options{format: format, dump: *dump, strict: *strict, jobs: *jobs}
	failed, err := decodeAll(ctx, lines, decodeOpts, opts, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if failed > 0 && opts.strict {
		return 1
	}
	return 0
}

func usageText() string {
	return `Usage:

 wkfmla [-h] [-v] [-variant VARIANT] [-profile PROFILE] [-detect FILE]
        [-col COL] [-row ROW] [-sheet SHEET] [-format text|instr]
        [-dump] [-strict] [-debug] [-j JOBS]
        formulas
positional arguments:

  formulas              file with one hex-encoded formula per line, use '-'
                        to read from STDIN; blank lines and lines starting
                        with '#' are skipped
optional arguments:

  -h, --help            show this help message and exit
  -v, --version         show program's version number and exit
  -variant VARIANT      format variant, wk1 wq1 or wb1 (default: wk1)
  -profile PROFILE      YAML file with variant, position, sheet and file names
  -detect FILE          take the variant from a worksheet file's BOF record
  -col, -row, -sheet    position of the formula cell, overriding the profile
  -format FORMAT        'text' for formula text, 'instr' for one instruction
                        per line (default: text)
  -dump                 hex dump each formula before its result
  -strict               exit with status 1 if any formula fails
  -debug                log opcode traces to stderr
  -j JOBS               formulas decoded in parallel (default: number of CPUs)
`
}

func parseFormat(s string) (outputFormat, error) {
	switch strings.ToLower(s) {
	case "text":
		return formatText, nil
	case "instr":
		return formatInstr, nil
	}
	return 0, fmt.Errorf("unknown format %q", s)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func readFormulas(r io.Reader) ([]formulaLine, error) {
	var lines []formulaLine
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for sc.Scan() {
		lineno++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		blob, err := hex.DecodeString(strings.Join(strings.Fields(text), ""))
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", lineno, err)
		}
		lines = append(lines, formulaLine{lineno: lineno, blob: blob})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// decodeAll decodes every line and writes the results in input order. It
// returns the number of formulas that failed to decode.
func decodeAll(ctx context.Context, lines []formulaLine, decodeOpts wkfmla.Options, opts options, w io.Writer) (int, error) {
	jobs := make([]wkfmla.Job, len(lines))
	for i, l := range lines {
		jobs[i] = wkfmla.Job{Blob: l.blob, EndOffset: len(l.blob), Position: decodeOpts.Position}
	}
	results, err := wkfmla.DecodeBatch(ctx, jobs, decodeOpts, opts.jobs)
	if err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(w)
	defer bw.Flush()
	failed := 0
	for i, res := range results {
		l := lines[i]
		if opts.dump {
			wkfmla.HexCharDump(l.blob, 0, len(l.blob), 0, bw, false)
		}
		if res.Err != nil {
			failed++
			fmt.Fprintf(bw, "%d: error: %v\n", l.lineno, res.Err)
			continue
		}
		writeResult(bw, l.lineno, res.Result, opts.format)
	}
	return failed, nil
}

func writeResult(w io.Writer, lineno int, res *wkfmla.Result, format outputFormat) {
	switch format {
	case formatInstr:
		fmt.Fprintf(w, "%d:\n", lineno)
		for _, in := range res.Instructions {
			fmt.Fprintf(w, "\t%v\n", in)
		}
	default:
		fmt.Fprintf(w, "%d: %s\n", lineno, wkfmla.Render(res.Instructions))
	}
	if res.Warning != nil {
		fmt.Fprintf(w, "%d: warning: %v\n", lineno, res.Warning)
	}
}
