package subm

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

const snapshotVersion = 1

type snapshot struct {
	Version int    `json:"version"`
	Subms   []Subm `json:"submissions"`
}

// WriteSnapshot writes every submission, in creation order, as
// zstd compressed JSON.
func (s *Store) WriteSnapshot(w io.Writer) error {
	s.mu.RLock()
	snap := snapshot{Version: snapshotVersion, Subms: make([]Subm, 0, len(s.order))}
	for _, r := range s.order {
		snap.Subms = append(snap.Subms, *r)
	}
	s.mu.RUnlock()

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(snap); err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes submissions written by WriteSnapshot.
func ReadSnapshot(r io.Reader) ([]Subm, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()

	var snap snapshot
	if err := json.NewDecoder(dec).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return snap.Subms, nil
}

// Restore imports a snapshot into the store. Judging restarts from the
// beginning for submissions that had not reached a terminal verdict, so
// they are imported as Pending and their ids returned for re-enqueueing.
func (s *Store) Restore(r io.Reader) (unjudged []string, err error) {
	subms, err := ReadSnapshot(r)
	if err != nil {
		return nil, err
	}
	for _, rec := range subms {
		if !rec.Verdict.IsTerminal() {
			rec.Verdict = Pending
			unjudged = append(unjudged, rec.ID)
		}
		if err := s.Import(rec); err != nil {
			return unjudged, err
		}
	}
	s.log.Info("restored submissions from snapshot", "count", len(subms), "unjudged", len(unjudged))
	return unjudged, nil
}
