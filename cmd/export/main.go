// Command export runs the lookup pipeline once from the command line and
// writes the fetched price history to a spreadsheet file:
//
//	export -query 삼성전자 -from 2023-01-01 -to 2023-01-10 -format xlsx -out samsung.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"krxcli/internal/config"
	"krxcli/internal/directory"
	"krxcli/internal/exporter"
	"krxcli/internal/infrastructure"
	"krxcli/internal/marketdata"
	"krxcli/internal/news"
	"krxcli/internal/services"
	"krxcli/pkg/contracts/domain"
)

const dateLayout = "2006-01-02"

func main() {
	var (
		query   = flag.String("query", "", "company name or 6-digit code")
		fromStr = flag.String("from", "", "start date (YYYY-MM-DD)")
		toStr   = flag.String("to", time.Now().Format(dateLayout), "end date (YYYY-MM-DD)")
		format  = flag.String("format", "xlsx", "output format: xlsx or csv")
		out     = flag.String("out", "", "output file path (default: <name>_<symbol>_prices.<format>)")
		timeout = flag.Duration("timeout", 2*time.Minute, "overall timeout")
	)
	flag.Parse()

	if err := run(*query, *fromStr, *toStr, *format, *out, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}
}

func run(query, fromStr, toStr, format, out string, timeout time.Duration) error {
	if query == "" {
		return fmt.Errorf("-query is required")
	}
	if fromStr == "" {
		return fmt.Errorf("-from is required")
	}
	if format != "xlsx" && format != "csv" {
		return fmt.Errorf("unsupported format %q", format)
	}

	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		return fmt.Errorf("invalid -from date: %w", err)
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return fmt.Errorf("invalid -to date: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	loader := directory.NewLoader(cfg.Directory.URL, cfg.Directory.CacheTTL, cfg.Directory.Timeout, logger)
	prices := marketdata.NewClient(cfg.MarketData.BaseURL, cfg.MarketData.Timeout, logger)
	headlines := news.NewClient(cfg.News.BaseURL, cfg.News.Timeout, cfg.News.CacheTTL, logger)
	svc := services.NewQuoteService(loader, prices, headlines, logger)

	result, err := svc.Lookup(ctx, domain.Query{Input: query, From: from, To: to})
	if err != nil {
		return err
	}

	if result.NoData {
		logger.Warn("no price data for the requested period; writing headers only",
			slog.String("symbol", result.Company.Symbol))
	}

	var buf interface{ Bytes() []byte }
	switch format {
	case "csv":
		buf, err = exporter.BuildCSV(result.Series)
	default:
		buf, err = exporter.BuildWorkbook(result.Series)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}

	if out == "" {
		out = exporter.Filename(result.Company, format)
	}

	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logger.Info("export written",
		slog.String("file", out),
		slog.String("symbol", result.Company.Symbol),
		slog.Int("rows", len(result.Series)),
	)

	return nil
}
