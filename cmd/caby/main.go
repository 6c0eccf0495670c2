// caby CLI - fills chunks and constant pools and reports how they grew
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/caby/manifest"
	"github.com/chazu/caby/profile"

	_ "github.com/tliron/commonlog/simple"
)

type options struct {
	configDir string
	synthetic int
	dbPath    string
	verbose   bool
	listRuns  bool
	files     []string
}

func main() {
	var opts options
	flag.StringVar(&opts.configDir, "config", ".", "Directory to start searching for caby.toml")
	flag.IntVar(&opts.synthetic, "n", 0, "Also fill a synthetic chunk with this many bytes")
	flag.StringVar(&opts.dbPath, "db", "", "Record runs in this SQLite database (overrides [profile] database)")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose output (logs every growth step)")
	flag.BoolVar(&opts.listRuns, "runs", false, "List runs recorded in the profile database and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: caby [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Appends each file's bytes to a chunk and its lines to a constant pool,\n")
		fmt.Fprintf(os.Stderr, "then prints how both containers grew.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  caby main.go                 # Measure one file\n")
		fmt.Fprintf(os.Stderr, "  caby -n 1000                 # Fill a 1000-byte synthetic chunk\n")
		fmt.Fprintf(os.Stderr, "  caby -db runs.db *.go        # Measure and record\n")
		fmt.Fprintf(os.Stderr, "  caby -db runs.db -runs       # Show recorded runs\n")
	}
	flag.Parse()
	opts.files = flag.Args()

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, out io.Writer) error {
	m, err := manifest.FindAndLoad(opts.configDir)
	if err != nil {
		return err
	}
	if m == nil {
		m = manifest.Default()
	}

	verbosity := m.Log.Verbosity
	if opts.verbose && verbosity < 2 {
		verbosity = 2
	}
	var logPath *string
	if f := m.LogFile(); f != "" {
		logPath = &f
	}
	commonlog.Configure(verbosity, logPath)

	dbPath := opts.dbPath
	if dbPath == "" {
		dbPath = m.DatabasePath()
	}

	if opts.listRuns {
		if dbPath == "" {
			return fmt.Errorf("-runs needs a database (-db or [profile] database)")
		}
		return listRuns(dbPath, out)
	}

	if len(opts.files) == 0 && opts.synthetic <= 0 {
		return fmt.Errorf("nothing to measure: give files or -n")
	}

	runs, err := measure(opts, m)
	if err != nil {
		return err
	}
	for _, r := range runs {
		printRun(out, r)
	}

	if dbPath == "" {
		return nil
	}
	store, err := profile.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	for _, r := range runs {
		if _, err := store.Record(r); err != nil {
			return err
		}
	}
	return nil
}

func measure(opts options, m *manifest.Manifest) ([]profile.Run, error) {
	g := m.GrowthPolicy()
	var runs []profile.Run

	for _, path := range opts.files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}

		chunkRun, err := profile.MeasureChunk(path, data, g)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		poolRun, err := profile.MeasurePool(path, strings.Split(string(data), "\n"), g)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		runs = append(runs, chunkRun, poolRun)
	}

	if opts.synthetic > 0 {
		data := make([]byte, opts.synthetic)
		for i := range data {
			data[i] = byte(i)
		}
		r, err := profile.MeasureChunk("synthetic", data, g)
		if err != nil {
			return nil, fmt.Errorf("synthetic: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, nil
}

func listRuns(dbPath string, out io.Writer) error {
	store, err := profile.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs()
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  ", r.ID, r.RecordedAt.Format("2006-01-02 15:04:05"))
		printRun(out, r)
	}
	return nil
}

func printRun(out io.Writer, r profile.Run) {
	fmt.Fprintf(out, "%-13s %-24s %s trace=%v\n", r.Container, r.Source, r.Stats, []int(r.Trace))
}
