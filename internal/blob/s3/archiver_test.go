package s3blob

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

// recordingBlob captures uploads so tests can assert on keys, payloads, and
// which upload path the archiver chose.
type recordingBlob struct {
	putKey         string
	putContentType string
	putBody        []byte

	multipartKey      string
	multipartPartSize int64
	multipartLen      int
}

func (r *recordingBlob) Put(_ context.Context, path string, data io.Reader, contentType string) error {
	body, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	r.putKey = path
	r.putContentType = contentType
	r.putBody = body
	return nil
}

func (r *recordingBlob) PutMultipart(_ context.Context, path string, data io.Reader, partSize int64) error {
	n, err := io.Copy(io.Discard, data)
	if err != nil {
		return err
	}
	r.multipartKey = path
	r.multipartPartSize = partSize
	r.multipartLen = int(n)
	return nil
}

func TestArchiveWagerKeyAndPayload(t *testing.T) {
	settled := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	profit := -23.55
	w := domain.Wager{
		ID:        "5f1c7a0e-9d2b-4c5a-8e3f-1b2c3d4e5f6a",
		BetType:   "Round Robin 2/4",
		Stake:     60,
		Status:    domain.WagerStatusSettled,
		Profit:    &profit,
		PlacedAt:  settled.Add(-48 * time.Hour),
		SettledAt: &settled,
	}
	b := domain.RoundRobinBreakdown{TotalLegs: 4, ParlaySize: 2, TotalParlays: 6}

	blob := &recordingBlob{}
	if err := NewArchiver(blob, "").ArchiveWager(context.Background(), w, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantKey := "archive/wagers/2026/03/" + w.ID + ".json"
	if blob.putKey != wantKey {
		t.Errorf("key = %q, want %q", blob.putKey, wantKey)
	}
	if blob.putContentType != "application/json" {
		t.Errorf("content type = %q, want application/json", blob.putContentType)
	}
	if blob.multipartKey != "" {
		t.Errorf("small payload went through multipart upload, key %q", blob.multipartKey)
	}

	var stored archivedWager
	if err := json.Unmarshal(blob.putBody, &stored); err != nil {
		t.Fatalf("stored object is not valid JSON: %v", err)
	}
	if stored.Wager.ID != w.ID || stored.Wager.BetType != w.BetType {
		t.Errorf("stored wager = %+v, want id %s, bet type %q", stored.Wager, w.ID, w.BetType)
	}
	if stored.Breakdown.TotalParlays != 6 {
		t.Errorf("stored breakdown TotalParlays = %d, want 6", stored.Breakdown.TotalParlays)
	}
}

func TestArchiveWagerKeyFallsBackToPlacedAt(t *testing.T) {
	w := domain.Wager{
		ID:       "a1b2c3d4-0000-0000-0000-000000000001",
		BetType:  "2/3",
		Stake:    30,
		Status:   domain.WagerStatusPending,
		PlacedAt: time.Date(2025, time.November, 2, 12, 0, 0, 0, time.UTC),
	}

	blob := &recordingBlob{}
	if err := NewArchiver(blob, "cold").ArchiveWager(context.Background(), w, domain.RoundRobinBreakdown{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantKey := "cold/2025/11/" + w.ID + ".json"
	if blob.putKey != wantKey {
		t.Errorf("key = %q, want %q", blob.putKey, wantKey)
	}
}

func TestArchiveWagerLargePayloadUsesMultipart(t *testing.T) {
	// Pad the notes until the marshaled object clears the multipart threshold.
	w := domain.Wager{
		ID:       "a1b2c3d4-0000-0000-0000-000000000002",
		BetType:  "2/4",
		Stake:    60,
		Notes:    strings.Repeat("x", int(multipartThreshold)+1024),
		Status:   domain.WagerStatusSettled,
		PlacedAt: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
	}

	blob := &recordingBlob{}
	if err := NewArchiver(blob, "").ArchiveWager(context.Background(), w, domain.RoundRobinBreakdown{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if blob.multipartKey == "" {
		t.Fatal("oversized payload did not use the multipart upload path")
	}
	if blob.putKey != "" {
		t.Errorf("oversized payload also went through single-shot Put, key %q", blob.putKey)
	}
	if blob.multipartPartSize != multipartThreshold {
		t.Errorf("part size = %d, want %d", blob.multipartPartSize, multipartThreshold)
	}
	if blob.multipartLen < int(multipartThreshold) {
		t.Errorf("uploaded %d bytes, want at least %d", blob.multipartLen, multipartThreshold)
	}
}
