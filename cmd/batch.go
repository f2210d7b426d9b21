package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/relato-labs/incident-cli/internal/model"
)

var (
	batchInput  string
	batchOutput string
)

// batchRecord is one line of the JSONL batch output.
type batchRecord struct {
	ID       string          `json:"id"`
	Text     string          `json:"text"`
	Incident *model.Incident `json:"incident,omitempty"`
	Error    string          `json:"error,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Extract incidents from a file of reports, one per line",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ext, err := initExtractor()
		if err != nil {
			return err
		}

		f, err := os.Open(batchInput)
		if err != nil {
			return eris.Wrapf(err, "open %s", batchInput)
		}
		defer f.Close()

		texts, err := readReports(f)
		if err != nil {
			return err
		}

		out := os.Stdout
		if batchOutput != "" {
			out, err = os.Create(batchOutput)
			if err != nil {
				return eris.Wrapf(err, "create %s", batchOutput)
			}
			defer out.Close()
		}

		records, err := processReports(ctx, texts, ext, cfg.Batch.MaxConcurrent, cfg.Batch.RatePerSec)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(out)
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return eris.Wrap(err, "write record")
			}
		}

		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "file with one report per line (required)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "JSONL output file (default stdout)")
	batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

// readReports collects non-blank lines from r.
func readReports(r io.Reader) ([]string, error) {
	var texts []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "read reports")
	}
	return texts, nil
}

// processReports extracts each report concurrently with bounded workers and
// a shared rate limit on outbound LLM calls. Per-report failures become
// error records rather than aborting the batch; results keep input order.
func processReports(ctx context.Context, texts []string, ext incidentExtractor, concurrency int, ratePerSec float64) ([]batchRecord, error) {
	if len(texts) == 0 {
		zap.L().Info("no reports to process")
		return nil, nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	limiter := rate.NewLimiter(rate.Limit(ratePerSec), 1)
	if ratePerSec <= 0 {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	zap.L().Info("processing batch",
		zap.Int("reports", len(texts)),
		zap.Int("concurrency", concurrency),
	)

	records := make([]batchRecord, len(texts))
	var succeeded, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, text := range texts {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}

			rec := batchRecord{ID: uuid.NewString(), Text: text}
			incident, err := ext.Extract(gctx, text, "")
			if err != nil {
				rec.Error = err.Error()
				failed.Add(1)
				zap.L().Warn("report failed",
					zap.String("id", rec.ID),
					zap.Error(err),
				)
			} else {
				rec.Incident = incident
				succeeded.Add(1)
			}
			records[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch aborted")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)

	return records, nil
}
