// Command console drives the dashboard from an interactive prompt.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"

	"tvcharts/internal/config"
	"tvcharts/internal/dashboard"
	"tvcharts/internal/filter"
	"tvcharts/internal/loader"
	"tvcharts/internal/logger"
	"tvcharts/internal/reports"
	"tvcharts/internal/storage"
	"tvcharts/internal/views"
)

const helpText = `Commands:
  filter <all|LED|LCD|OLED>  select the technology filter
  hover <n>                  show the tooltip of scatterplot point n
  leave                      hide the tooltip
  bins                       print the current histogram bins
  state                      print the dashboard state
  save <dir>                 write chart images and the page to dir
  help                       show this help
  quit                       leave the console
`

var errQuit = errors.New("quit")

// console executes one prompt line at a time against the controller
type console struct {
	ctx   context.Context
	c     *dashboard.Controller
	pages *reports.PageBuilder
	out   io.Writer
}

func (s *console) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprint(s.out, helpText)
		return nil
	case "filter":
		if len(args) != 1 {
			return fmt.Errorf("usage: filter <all|LED|LCD|OLED>")
		}
		return s.filter(args[0])
	case "hover":
		if len(args) != 1 {
			return fmt.Errorf("usage: hover <n>")
		}
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid point index %q", args[0])
		}
		res, err := s.c.Handle(dashboard.Hover{Index: i})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "point %d: screen size %s\n", i, res.Tooltip.Text)
		return nil
	case "leave":
		_, err := s.c.Handle(dashboard.Leave{})
		return err
	case "bins":
		res, err := s.c.Handle(dashboard.Tick{})
		if err != nil {
			return err
		}
		s.printBins(res.Status)
		return nil
	case "state":
		res, err := s.c.Handle(dashboard.Tick{})
		if err != nil {
			return err
		}
		s.printState(res.Status)
		return nil
	case "save":
		if len(args) != 1 {
			return fmt.Errorf("usage: save <dir>")
		}
		return s.save(args[0])
	}
	return fmt.Errorf("unknown command %q, try help", cmd)
}

func (s *console) filter(arg string) error {
	id := filter.ID(strings.ToUpper(arg))
	if strings.EqualFold(arg, string(filter.All)) {
		id = filter.All
	}
	res, err := s.c.Handle(dashboard.SetFilter{ID: id})
	if err != nil {
		return err
	}
	switch {
	case !res.Changed:
		fmt.Fprintf(s.out, "filter %s already active\n", id)
	case res.Skipped:
		fmt.Fprintf(s.out, "filter %s selects no records, histogram unchanged\n", id)
	default:
		fmt.Fprintf(s.out, "filter %s: %d records in %d bins\n", id, res.Status.Filtered, len(res.Status.Bins))
	}
	return nil
}

func (s *console) printBins(st dashboard.Status) {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "lower\tupper\tcount\t")
	for _, b := range st.Bins {
		fmt.Fprintf(tw, "%s\t%s\t%d\t\n", views.FormatValue(b.Lower), views.FormatValue(b.Upper), b.Count)
	}
	tw.Flush()
}

func (s *console) printState(st dashboard.Status) {
	fmt.Fprintf(s.out, "source:   %s\n", st.Source)
	fmt.Fprintf(s.out, "field:    %s\n", st.Field)
	fmt.Fprintf(s.out, "filter:   %s (%d of %d records)\n", st.Filter, st.Filtered, st.Records)
	techs := make([]string, 0, len(st.ByTech))
	for t, n := range st.ByTech {
		techs = append(techs, fmt.Sprintf("%s=%d", t, n))
	}
	sort.Strings(techs)
	fmt.Fprintf(s.out, "techs:    %s\n", strings.Join(techs, " "))
	fmt.Fprintf(s.out, "bins:     %d (skipped %d)\n", len(st.Bins), st.Skipped)
	if st.Hovered >= 0 {
		fmt.Fprintf(s.out, "hovered:  %d\n", st.Hovered)
	} else {
		fmt.Fprintf(s.out, "hovered:  none\n")
	}
	fmt.Fprintf(s.out, "animating: %v\n", st.Animating)
}

func (s *console) save(dir string) error {
	store, err := storage.NewLocalStorageClient(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	artifacts, err := s.pages.SnapshotArtifacts(s.c.Handle)
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		if err := store.StoreFile(s.ctx, a.Name, a.Data); err != nil {
			return err
		}
	}
	fmt.Fprintf(s.out, "wrote %d files to %s\n", len(artifacts), dir)
	return nil
}

func completer() *readline.PrefixCompleter {
	var filters []readline.PrefixCompleterInterface
	for _, f := range filter.NewState().Filters() {
		filters = append(filters, readline.PcItem(string(f.ID)))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("filter", filters...),
		readline.PcItem("hover"),
		readline.PcItem("leave"),
		readline.PcItem("bins"),
		readline.PcItem("state"),
		readline.PcItem("save"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		logger.Fatal("Failed to configure logging", err)
	}
	logger.Default().SetOutput(os.Stderr)

	ds, err := loader.New(cfg.FetchTimeout).Load(ctx, cfg.DataSource)
	if err != nil {
		logger.Fatal("Dataset failed to load", err, logger.Fields{"source": cfg.DataSource})
	}
	c, err := dashboard.New(ds, dashboard.ConfigFrom(cfg))
	if err != nil {
		logger.Fatal("Charts could not be drawn", err)
	}
	pages, err := reports.NewPageBuilder()
	if err != nil {
		logger.Fatal("Failed to prepare page templates", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tvcharts> ",
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		logger.Fatal("Failed to start prompt", err)
	}
	defer rl.Close()

	s := &console{ctx: ctx, c: c, pages: pages, out: rl.Stdout()}
	fmt.Fprintf(s.out, "%d records from %s. Type help for commands.\n", ds.Len(), ds.Source())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			logger.Error("Prompt failed", err)
			return
		}

		if err := s.exec(line); err != nil {
			if errors.Is(err, errQuit) {
				return
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}
