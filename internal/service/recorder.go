package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/port"
)

// recorder writes analysis history. Failures are logged and never surface to
// the caller; history is informational.
type recorder struct {
	repo port.AnalysisRecordRepository
	log  *zap.Logger
	now  func() time.Time
}

func newRecorder(repo port.AnalysisRecordRepository, log *zap.Logger) *recorder {
	return &recorder{repo: repo, log: log, now: time.Now}
}

func (r *recorder) record(ctx context.Context, rec domain.AnalysisRecord) {
	if r.repo == nil {
		return
	}
	rec.ID = uuid.New()
	rec.CreatedAt = r.now().UTC()
	if err := r.repo.Create(ctx, &rec); err != nil {
		r.log.Warn("recording analysis history failed",
			zap.String("tool", string(rec.Tool)),
			zap.String("file", rec.FileName),
			zap.Error(err))
	}
}

// summarize shortens text to n runes for history summaries.
func summarize(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
