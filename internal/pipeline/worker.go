package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/dgallion1/docmerge/internal/compose"
	"github.com/dgallion1/docmerge/internal/delivery"
	"github.com/dgallion1/docmerge/internal/merge"
	"github.com/dgallion1/docmerge/internal/ooxml"
	"github.com/dgallion1/docmerge/internal/records"
	"github.com/dgallion1/docmerge/internal/store"
)

// Worker processes a single merge batch job.
type Worker struct {
	deliverer *delivery.Client
	history   *store.Store
	log       *slog.Logger
	outputDir string
}

func NewWorker(deliverer *delivery.Client, history *store.Store, log *slog.Logger, outputDir string) *Worker {
	return &Worker{
		deliverer: deliverer,
		history:   history,
		log:       log,
		outputDir: outputDir,
	}
}

// Process runs the full merge pipeline for a batch: parse records, merge the
// template once per record in record order, combine the results with page
// breaks, then push the combined document to the configured sinks. Any
// failure aborts the batch; nothing partial is stored or delivered.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "batch_id", job.BatchID)
	templateData, recordsData := job.Inputs()

	// Phase 1: Parse records.
	job.SetStatus(StatusParsing, "parsing")
	src, err := records.ForFile(job.RecordsName)
	if err != nil {
		w.fail(ctx, job, log, "parsing", err)
		return
	}
	set, err := src.Parse(bytes.NewReader(recordsData))
	if err != nil {
		w.fail(ctx, job, log, "parsing", fmt.Errorf("parse records: %w", err))
		return
	}
	if len(set.Records) == 0 {
		w.fail(ctx, job, log, "parsing", fmt.Errorf("record file has no data rows"))
		return
	}
	job.SetTotalRecords(len(set.Records))

	// Phase 1.5: Dedup against completed batches.
	if existing, err := w.history.FindByHash(ctx, job.ContentHash); err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if existing != "" {
		log.Info("duplicate submission, skipping", "existing_batch_id", existing)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 1.6: Optional template-to-document conversion.
	if job.ConvertTemplate {
		pkg, err := ooxml.OpenPackage(templateData)
		if err != nil {
			w.fail(ctx, job, log, "parsing", fmt.Errorf("open template: %w", err))
			return
		}
		if err := ooxml.ConvertTemplate(pkg, job.TemplateName); err != nil {
			w.fail(ctx, job, log, "parsing", err)
			return
		}
		templateData, err = pkg.Bytes()
		if err != nil {
			w.fail(ctx, job, log, "parsing", err)
			return
		}
	}

	// Phase 2: Merge, strictly sequential. Every record gets its own
	// package instance; the output list order is the record order.
	job.SetStatus(StatusMerging, "merging")
	merged := make([][]byte, 0, len(set.Records))
	for i, rec := range set.Records {
		pkg, err := ooxml.OpenPackage(templateData)
		if err != nil {
			w.fail(ctx, job, log, "merging", fmt.Errorf("open template: %w", err))
			return
		}
		buf, err := merge.Merge(pkg, records.NewResolver(rec))
		if err != nil {
			w.fail(ctx, job, log, "merging", fmt.Errorf("record %d: %w", i, err))
			return
		}
		merged = append(merged, buf)
		job.IncrRecordsMerged()
	}
	log.Info("merged records", "count", len(merged))

	// Phase 3: Compose into one document.
	job.SetStatus(StatusComposing, "composing")
	combined, err := compose.Combine(merged)
	if err != nil {
		w.fail(ctx, job, log, "composing", err)
		return
	}
	job.SetResult(combined)

	// Phase 4: Deliver to the configured sinks.
	job.SetStatus(StatusDelivering, "delivering")
	outputName := w.outputName(job)
	if err := w.deliver(ctx, job, outputName, combined, log); err != nil {
		w.fail(ctx, job, log, "delivering", err)
		return
	}

	// Phase 5: Record history.
	if err := w.history.RecordBatch(ctx, w.batchRow(job, store.Batch{
		Status:     "completed",
		OutputName: outputName,
		OutputSize: int64(len(combined)),
	}), combined); err != nil {
		log.Error("record batch history", "error", err)
		job.AddError(fmt.Sprintf("history: %s", err))
	}

	job.SetStatus(StatusCompleted, "done")
	log.Info("batch completed", "output_bytes", len(combined))
}

func (w *Worker) deliver(ctx context.Context, job *Job, outputName string, data []byte, log *slog.Logger) error {
	if w.deliverer != nil {
		res := delivery.Result{
			BatchID:     job.BatchID,
			Filename:    outputName,
			RecordCount: job.Snapshot().Progress.TotalRecords,
			ContentHash: job.ContentHash,
		}
		var lastErr error
		for attempt := 0; attempt < MaxRetries; attempt++ {
			lastErr = w.deliverer.Deliver(ctx, res, data)
			if lastErr == nil || !IsRetryable(lastErr) {
				break
			}
			log.Warn("retryable delivery error", "attempt", attempt, "error", lastErr)
			select {
			case <-time.After(Backoff(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if lastErr != nil {
			return fmt.Errorf("deliver: %w", lastErr)
		}
	}

	if w.outputDir != "" {
		path := filepath.Join(w.outputDir, outputName)
		if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
		log.Info("wrote output file", "path", path)
	}
	return nil
}

func (w *Worker) fail(ctx context.Context, job *Job, log *slog.Logger, phase string, err error) {
	log.Error("batch failed", "phase", phase, "error", err)
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)

	if herr := w.history.RecordBatch(ctx, w.batchRow(job, store.Batch{
		Status: "failed",
		Error:  err.Error(),
	}), nil); herr != nil {
		log.Error("record batch history", "error", herr)
	}
}

func (w *Worker) batchRow(job *Job, b store.Batch) store.Batch {
	snap := job.Snapshot()
	b.ID = job.BatchID
	b.TemplateName = snap.TemplateName
	b.RecordCount = snap.Progress.TotalRecords
	b.ContentHash = job.ContentHash
	b.CreatedAt = job.CreatedAt
	b.CompletedAt = time.Now()
	return b
}

func (w *Worker) outputName(job *Job) string {
	base := strings.TrimSuffix(job.TemplateName, filepath.Ext(job.TemplateName))
	if base == "" {
		base = "merged"
	}
	return fmt.Sprintf("%s-%s.docx", base, job.BatchID)
}
