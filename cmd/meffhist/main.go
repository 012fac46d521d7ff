package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvalero/meffhist/internal/config"
	"github.com/dvalero/meffhist/internal/domain"
	"github.com/dvalero/meffhist/internal/infrastructure/archive"
	"github.com/dvalero/meffhist/internal/infrastructure/logger"
	"github.com/dvalero/meffhist/internal/infrastructure/meff"
	"github.com/dvalero/meffhist/internal/infrastructure/storage"
	"github.com/dvalero/meffhist/internal/infrastructure/transfer"
	"github.com/dvalero/meffhist/internal/usecase"
	"github.com/dvalero/meffhist/internal/web"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "path to config file")
		serve       = flag.Bool("serve", false, "start the query API server")
		ticker      = flag.String("ticker", "", "contract code to query")
		from        = flag.String("from", "", "range start (YYYY-MM-DD)")
		to          = flag.String("to", "", "range end (YYYY-MM-DD)")
		optionsDate = flag.String("options", "", "list options for ticker on this date (YYYY-MM-DD)")
		listTickers = flag.Bool("tickers", false, "print the ticker listing")
		store       = flag.Bool("store", false, "persist retrieved quotes to sqlite")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cacheDir := cfg.Cache.Dir
	if cacheDir == "" {
		cacheDir = transfer.BaseSettingsPath()
	}
	cache := transfer.NewCache(cacheDir, time.Duration(cfg.Cache.TimeoutSeconds)*time.Second, log)
	resolver := meff.NewResolver(cfg.Source.BaseURL)
	service := usecase.NewHistoryService(resolver, cache, archive.Decoder{}, log)

	var repo domain.QuoteRepository
	if *store || *serve {
		quoteStore, err := storage.NewQuoteStore(cfg.Storage.Path)
		if err != nil {
			log.Fatal("Failed to open quote store", zap.Error(err))
		}
		defer quoteStore.Close()
		repo = quoteStore
	}

	if *serve {
		runServer(cfg.Server.Port, service, repo, log)
		return
	}

	ctx := context.Background()
	switch {
	case *listTickers:
		tickers, err := service.GetTickerList(ctx)
		if err != nil {
			log.Fatal("Failed to get ticker list", zap.Error(err))
		}
		for _, t := range tickers {
			fmt.Println(t)
		}

	case *optionsDate != "":
		day, err := time.Parse(dateLayout, *optionsDate)
		if err != nil {
			log.Fatal("Invalid options date", zap.Error(err))
		}
		quotes, err := service.GetOptions(ctx, *ticker, day)
		if err != nil {
			log.Fatal("Failed to get options", zap.Error(err))
		}
		printQuotes(quotes)

	case *ticker != "":
		start, err := time.Parse(dateLayout, *from)
		if err != nil {
			log.Fatal("Invalid from date", zap.Error(err))
		}
		end, err := time.Parse(dateLayout, *to)
		if err != nil {
			log.Fatal("Invalid to date", zap.Error(err))
		}
		quotes, err := service.GetHistoricalQuotes(ctx, *ticker, start, end)
		if err != nil {
			log.Fatal("Failed to get historical quotes", zap.Error(err))
		}
		printQuotes(quotes)
		if *store && repo != nil {
			if err := repo.SaveQuotes(ctx, quotes); err != nil {
				log.Fatal("Failed to store quotes", zap.Error(err))
			}
			log.Info("Quotes stored", zap.Int("count", len(quotes)), zap.String("path", cfg.Storage.Path))
		}

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runServer(port int, service domain.QuoteSource, repo domain.QuoteRepository, log *zap.Logger) {
	server := web.NewServer(port, service, repo, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Web server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
	}
}

func printQuotes(quotes []domain.Quote) {
	for _, q := range quotes {
		fmt.Printf("%s  %-20s %-6s O:%g H:%g L:%g C:%g S:%g V:%g OI:%g\n",
			q.SessionDate.Format(dateLayout), q.ContractCode, q.CategoryCode,
			q.Open, q.High, q.Low, q.Close, q.Settlement, q.Volume, q.OpenInterest)
	}
}
