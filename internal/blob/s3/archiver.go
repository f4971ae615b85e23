package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

// multipartThreshold is the payload size above which the archiver switches
// from a single PutObject to a multipart upload. Matches the S3 minimum part
// size, so anything above it is guaranteed to split into valid parts.
const multipartThreshold = minPartSize

// Archiver implements domain.WagerArchiver by writing one JSON object per
// finalized wager. Objects are keyed by settlement date so a bucket lifecycle
// rule can expire old years wholesale.
type Archiver struct {
	writer domain.BlobWriter
	prefix string
}

// NewArchiver creates an Archiver that writes under the given key prefix,
// e.g. "archive/wagers". An empty prefix defaults to "archive/wagers".
func NewArchiver(w domain.BlobWriter, prefix string) *Archiver {
	if prefix == "" {
		prefix = "archive/wagers"
	}
	return &Archiver{writer: w, prefix: prefix}
}

// archivedWager is the stored representation: the wager row plus the final
// breakdown it settled with.
type archivedWager struct {
	Wager     domain.Wager               `json:"wager"`
	Breakdown domain.RoundRobinBreakdown `json:"breakdown"`
}

// ArchiveWager uploads the wager and its final breakdown as a single JSON
// object. The key embeds the settlement date, falling back to the placement
// date for wagers archived before settlement. Breakdowns for very large round
// robins can run past the single-request sweet spot, so oversized payloads go
// through the multipart path.
func (a *Archiver) ArchiveWager(ctx context.Context, w domain.Wager, b domain.RoundRobinBreakdown) error {
	ts := w.PlacedAt
	if w.SettledAt != nil {
		ts = *w.SettledAt
	}

	data, err := json.MarshalIndent(archivedWager{Wager: w, Breakdown: b}, "", "  ")
	if err != nil {
		return fmt.Errorf("s3blob: marshal archived wager %s: %w", w.ID, err)
	}

	key := fmt.Sprintf("%s/%04d/%02d/%s.json", a.prefix, ts.Year(), int(ts.Month()), w.ID)
	if int64(len(data)) >= multipartThreshold {
		err = a.writer.PutMultipart(ctx, key, bytes.NewReader(data), multipartThreshold)
	} else {
		err = a.writer.Put(ctx, key, bytes.NewReader(data), "application/json")
	}
	if err != nil {
		return fmt.Errorf("s3blob: archive wager %s: %w", w.ID, err)
	}
	return nil
}
