package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/randolang/randolang"
	"github.com/randolang/randolang/cache"
	"github.com/randolang/randolang/internal/config"
	"github.com/randolang/randolang/internal/logging"
	"github.com/randolang/randolang/internal/metrics"
	"github.com/randolang/randolang/internal/publish"
	"github.com/randolang/randolang/phone"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

const publishTimeout = 10 * time.Second

type options struct {
	dict, vocab string
	order       int
	maxLength   int
	seed        int64
	workers     int
	scheme      string
	count       int
	attempts    int
	cacheDir    string
	noCache     bool
	verbose     bool
	interval    time.Duration
	metricsAddr string
	kafka       bool
	brokers     string
	topic       string
	logLevel    string
	logFormat   string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	cfg := config.Load()
	o := &options{}
	fs := flag.NewFlagSet("randolang", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.dict, "dict", cfg.Generator.DictPath, "path to CMUdict pronunciation dictionary")
	fs.StringVar(&o.vocab, "vocab", cfg.Generator.VocabPath, "text whose words restrict the dictionary (optional)")
	fs.IntVar(&o.order, "order", cfg.Generator.Order, "Markov model order")
	fs.IntVar(&o.maxLength, "max-length", cfg.Generator.MaxLength, "maximum phones per word")
	fs.Int64Var(&o.seed, "seed", cfg.Generator.Seed, "random seed (0 = clock)")
	fs.IntVar(&o.workers, "workers", cfg.Generator.Workers, "model build workers")
	fs.StringVar(&o.scheme, "scheme", cfg.Generator.Scheme, "model phones (spelled) or letters")
	fs.IntVar(&o.count, "n", 10, "number of words per batch")
	fs.IntVar(&o.attempts, "attempts", 0, "maximum samples per batch (default 100*n)")
	fs.StringVar(&o.cacheDir, "cache", cfg.Generator.CacheDir, "words cache directory")
	fs.BoolVar(&o.noCache, "no-cache", false, "neither read nor write the words cache")
	fs.BoolVar(&o.verbose, "v", false, "print phones and log probability with each word")
	fs.DurationVar(&o.interval, "interval", 0, "generate a batch every interval until interrupted (0 = once)")
	fs.StringVar(&o.metricsAddr, "metrics-addr", cfg.Metrics.Addr, "serve Prometheus metrics on this address")
	fs.BoolVar(&o.kafka, "kafka", cfg.Kafka.Enabled, "publish words to Kafka")
	fs.StringVar(&o.brokers, "brokers", strings.Join(cfg.Kafka.Brokers, ","), "comma-separated Kafka brokers")
	fs.StringVar(&o.topic, "topic", cfg.Kafka.Topic, "Kafka topic")
	fs.StringVar(&o.logLevel, "log-level", cfg.Log.Level, "log level")
	fs.StringVar(&o.logFormat, "log-format", cfg.Log.Format, "log format: console or json")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: randolang -dict CMUDICT [-vocab TEXT] [options]")
		fmt.Fprintln(stderr, "  Generates pronounceable words that are not in the dictionary.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.dict == "" {
		fs.Usage()
		return nil, errors.New("-dict is required")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	o, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: o.logLevel, Format: o.logFormat, TimeFormat: time.RFC3339})
	log := logging.WithComponent("cli")

	if o.metricsAddr != "" {
		srv := metrics.NewServer(o.metricsAddr, nil)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	scheme := cache.Scheme(o.scheme)
	opts := []randolang.Option{
		randolang.WithScheme(scheme),
		randolang.WithSeed(o.seed),
		randolang.WithMaxLength(o.maxLength),
		randolang.WithWorkers(o.workers),
		randolang.WithLogger(logging.WithComponent("generator")),
		randolang.WithMetrics(prometheus.DefaultRegisterer),
	}
	var words *cache.Cache
	if !o.noCache {
		words = cache.New(o.cacheDir, cache.WithLogger(logging.WithComponent("cache")))
		if err := words.Load(scheme); err != nil {
			return fmt.Errorf("load cache: %w", err)
		}
		opts = append(opts, randolang.WithCache(words))
	}

	gen, err := randolang.NewGeneratorFromFiles(o.dict, o.vocab, o.order, opts...)
	if err != nil {
		return err
	}
	log.Info().Int64("seed", gen.Seed()).Str("scheme", o.scheme).Msg("generator ready")

	pub := publish.New(&publish.Config{
		Brokers: splitBrokers(o.brokers),
		Topic:   o.topic,
		Enabled: o.kafka,
	}, metrics.Default())
	defer pub.Close()

	for {
		if err := batch(ctx, gen, words, pub, o, stdout, log); err != nil {
			return err
		}
		if o.interval <= 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			log.Info().Msg("interrupted")
			return nil
		case <-time.After(o.interval):
		}
	}
}

func batch(ctx context.Context, gen *randolang.Generator, words *cache.Cache, pub *publish.Publisher,
	o *options, stdout io.Writer, log zerolog.Logger) error {
	out, err := gen.Batch(ctx, o.count, o.attempts)
	switch {
	case errors.Is(err, randolang.ErrAttemptsExhausted):
		log.Warn().Err(err).Msg("short batch")
	case errors.Is(err, context.Canceled):
		log.Info().Int("words", len(out)).Msg("batch interrupted")
		// the words are already cached in memory; still report them
		ctx = context.WithoutCancel(ctx)
	case err != nil:
		return err
	}

	events := make([]publish.NameEvent, 0, len(out))
	now := time.Now().UTC()
	for _, w := range out {
		if o.verbose {
			fmt.Fprintf(stdout, "%s\t%s\t%.3f\n", w.Text, phoneString(w.Phones), w.LogProb)
		} else {
			fmt.Fprintln(stdout, w.Text)
		}
		events = append(events, publish.NameEvent{
			Name:         w.Text,
			Phones:       phoneStrings(w.Phones),
			Scheme:       string(gen.Scheme()),
			TLD:          cache.DefaultTLD,
			Availability: string(cache.Unknown),
			Truncated:    w.Truncated,
			LogProb:      w.LogProb,
			GeneratedAt:  now,
		})
	}

	if words != nil {
		if err := words.Save(gen.Scheme()); err != nil {
			return fmt.Errorf("save cache: %w", err)
		}
	}
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := pub.Publish(pubCtx, events...); err != nil {
		log.Error().Err(err).Msg("publish failed")
	}
	return nil
}

func splitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func phoneStrings(ps []phone.Phone) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

func phoneString(ps []phone.Phone) string {
	return strings.Join(phoneStrings(ps), " ")
}
