package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when the snapshot format changes; stale snapshots are rejected.
const snapshotSchemaVersion uint16 = 1

// Snapshot is the serializable summary of one batch run, written next
// to the job files so reports can be regenerated without re-solving.
type Snapshot struct {
	Schema    uint16
	CreatedAt time.Time
	Beams     []BeamSnapshot
}

// BeamSnapshot is the serializable slice of one beam's result.
type BeamSnapshot struct {
	Path     string
	RunID    string
	BeamName string

	Valid   bool
	Message string

	BackboneDiameter    int
	BackboneTopCount    int
	BackboneBottomCount int

	TotalWeight  float64 // kg
	SpliceCount  int
	WastePercent float64
	TotalScore   float64

	// Zone labels keyed like the solution reinforcement map
	Layout map[string]string

	Elapsed time.Duration
}

// NewSnapshot condenses batch results into their persistent form.
func NewSnapshot(results []BeamResult) *Snapshot {
	snap := &Snapshot{
		Schema:    snapshotSchemaVersion,
		CreatedAt: time.Now().UTC(),
	}
	for _, res := range results {
		bs := BeamSnapshot{
			Path:    res.Path,
			RunID:   res.RunID,
			Elapsed: res.Elapsed,
		}
		if res.Job != nil {
			bs.BeamName = res.Job.Beam.Name
		}
		switch {
		case res.Err != nil:
			bs.Message = res.Err.Error()
		case len(res.Solutions) > 0:
			best := res.Solutions[0]
			bs.BeamName = best.BeamName
			bs.Valid = best.IsValid
			bs.Message = best.Message
			bs.BackboneDiameter = best.BackboneDiameter
			bs.BackboneTopCount = best.BackboneTopCount
			bs.BackboneBottomCount = best.BackboneBottomCount
			bs.TotalWeight = best.TotalWeight
			bs.SpliceCount = best.SpliceCount
			bs.WastePercent = best.WastePercent
			bs.TotalScore = best.TotalScore
			bs.Layout = make(map[string]string, len(best.Reinforcements))
			for key, r := range best.Reinforcements {
				bs.Layout[key] = r.Label()
			}
		}
		snap.Beams = append(snap.Beams, bs)
	}
	return snap
}

// WriteSnapshot serializes the snapshot to path atomically.
func WriteSnapshot(path string, snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadSnapshot loads a snapshot written by WriteSnapshot. A missing
// file is (nil, false, nil); a schema mismatch is an error.
func ReadSnapshot(path string) (*Snapshot, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var snap Snapshot
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&snap); err != nil {
		return nil, false, fmt.Errorf("%s: corrupt snapshot: %w", path, err)
	}
	if snap.Schema != snapshotSchemaVersion {
		return nil, false, fmt.Errorf("%s: snapshot schema %d, want %d", path, snap.Schema, snapshotSchemaVersion)
	}
	return &snap, true, nil
}
