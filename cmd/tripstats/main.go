// Command tripstats ingests a trip log and prints the busiest zones and
// zone-hour slots, optionally exporting the run or serving the reports
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripstats/internal/adapters/source/file"
	"tripstats/internal/core/tally"
	"tripstats/internal/modkit"
	"tripstats/internal/platform/config"
	perr "tripstats/internal/platform/errors"
	"tripstats/internal/platform/logger"
	phttp "tripstats/internal/platform/net/http"
	"tripstats/internal/platform/store"
	"tripstats/internal/services/api"
	exportmod "tripstats/internal/services/export/module"
	exportsvc "tripstats/internal/services/export/service"
	ingest "tripstats/internal/services/ingest/domain"
	ingestmod "tripstats/internal/services/ingest/module"
	reportmod "tripstats/internal/services/report/module"
	"tripstats/internal/services/report/render"
	reportsvc "tripstats/internal/services/report/service"
)

type options struct {
	in      string
	zones   int
	slots   int
	format  string
	workers int
	zoneCol int
	timeCol int
	strict  bool
	export  bool
	serve   string
	profile string
}

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	l := logger.Get()
	if err := config.LoadDotEnv(); err != nil {
		l.Fatal().Err(err).Msg("load .env failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		stop()
		l.Fatal().Err(err).Msg("tripstats failed")
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("tripstats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.in, "in", "", "trip log path, - reads stdin (plain or gzip); zone-first logs need -zone-col 0 -time-col 2")
	fs.IntVar(&o.zones, "zones", 10, "number of busiest zones to print")
	fs.IntVar(&o.slots, "slots", 10, "number of busiest zone-hour slots to print")
	fs.StringVar(&o.format, "format", "table", "output format: table | json | csv")
	fs.IntVar(&o.workers, "workers", 0, "ingest workers, 0 uses CORE_INGEST_WORKERS")
	fs.IntVar(&o.zoneCol, "zone-col", -1, "zone column index, -1 uses CORE_INGEST_ZONE_COLUMN")
	fs.IntVar(&o.timeCol, "time-col", -1, "pickup time column index, -1 uses CORE_INGEST_TIME_COLUMN")
	fs.BoolVar(&o.strict, "strict", false, "fail when the input cannot be read completely")
	fs.BoolVar(&o.export, "export", false, "persist the run to the configured Postgres and/or ClickHouse")
	fs.StringVar(&o.serve, "serve", "", "serve the report API on addr after ingestion, e.g. :4000")
	fs.StringVar(&o.profile, "profile", "", "YAML run profile, explicit flags override it")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.profile != "" {
		p, err := loadProfile(o.profile)
		if err != nil {
			return o, err
		}
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		p.apply(&o, set)
	}

	if o.in == "" {
		return o, perr.WithField(perr.InvalidArgf("missing -in (path or -)"), "in")
	}
	if o.zones < 0 || o.slots < 0 {
		return o, perr.InvalidArgf("-zones and -slots must be >= 0")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	o, err := parseFlags(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(o.format)
	if err != nil {
		return err
	}

	root := config.New()
	l := logger.Get()

	st, err := openStore(ctx, root, o.export, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	deps := modkit.FromStore(root, l, st)

	ingester, err := newIngester(deps, o)
	if err != nil {
		return err
	}
	res, err := ingestRun(ctx, ingester, o.in, stdin)
	if err != nil {
		if o.strict || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		// the store holds whatever was read before the failure
		l.Warn().Err(err).Str("source", res.Source).Msg("ingest incomplete, reporting what was read")
	}
	if res.Store == nil {
		res.Store = tally.New()
	}

	inputs := reportsvc.InputsFrom(res)
	reports, err := reportmod.New(deps, modkit.WithPorts(inputs))
	if err != nil {
		return err
	}
	rep, err := reports.Service().Build(ctx, o.zones, o.slots)
	if err != nil {
		return err
	}
	if err := render.Render(stdout, format, rep); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "write report")
	}

	if o.export {
		if err := exportRun(ctx, deps, res); err != nil {
			return err
		}
	}

	if o.serve != "" {
		mustSetEnv("API_PORT", o.serve)
		srv := phttp.NewServer(root)
		if _, err := api.Mount(srv.Router(), api.Options{Deps: deps, Inputs: inputs, Logger: l}); err != nil {
			return err
		}
		return srv.Run(ctx)
	}
	return nil
}

// openStore opens the export backends that have a DBURL configured
// without -export no backend is opened
func openStore(ctx context.Context, root config.Conf, export bool, l *logger.Logger) (*store.Store, error) {
	cfg := store.Config{App: "tripstats"}
	if export {
		pgCfg := root.Prefix("SERVICE_PGSQL_")
		chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
		cfg.Postgres = store.Postgres{
			URL:      pgCfg.MayString("DBURL", ""),
			MaxConns: int32(pgCfg.MayInt("MAX_CONNS", 4)),
			Slow:     time.Duration(pgCfg.MayInt("SLOW_MS", 500)) * time.Millisecond,
			LogSQL:   pgCfg.MayBool("LOG_SQL", false),
		}
		cfg.ClickHouse = store.ClickHouse{
			URL:    chCfg.MayString("DBURL", ""),
			LogSQL: chCfg.MayBool("LOG_SQL", false),
		}
		if cfg.Postgres.URL == "" && cfg.ClickHouse.URL == "" {
			return nil, perr.Unavailablef("-export needs SERVICE_PGSQL_DBURL or SERVICE_CLICKHOUSE_DBURL")
		}
	}
	return store.Open(ctx, cfg, store.WithLogger(*l))
}

func newIngester(deps modkit.Deps, o options) (*ingestmod.Module, error) {
	return ingestmod.New(deps, func(opt *ingestmod.Options) {
		if o.workers > 0 {
			opt.Workers = o.workers
		}
		if o.zoneCol >= 0 {
			opt.Layout.ZoneColumn = o.zoneCol
		}
		if o.timeCol >= 0 {
			opt.Layout.TimeColumn = o.timeCol
		}
	})
}

func ingestRun(ctx context.Context, mod *ingestmod.Module, in string, stdin io.Reader) (ingest.Result, error) {
	if in != "-" {
		return mod.Service().IngestFile(ctx, in)
	}
	src, err := file.FromReader(stdin, file.WithMaxLine(mod.Options().MaxLineBytes))
	if err != nil {
		return ingest.Result{}, err
	}
	return mod.Service().Ingest(ctx, "stdin", src)
}

func exportRun(ctx context.Context, deps modkit.Deps, res ingest.Result) error {
	mod := exportmod.New(deps)
	in, err := exportsvc.InputFrom(res)
	if err != nil {
		return err
	}
	out, err := mod.Service().Export(ctx, in)
	if err != nil {
		return err
	}
	deps.Logger("export").Info().
		Str("run_id", out.RunID.String()).
		Int("rows", out.Rows).
		Bool("postgres", out.Postgres).
		Bool("clickhouse", out.ClickHouse).
		Msg("run exported")
	return nil
}
