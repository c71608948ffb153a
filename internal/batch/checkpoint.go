package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Checkpoint tracks which seeds have completed, persisted as JSON so a
// resumed run can skip them.
type Checkpoint struct {
	path string

	mu sync.Mutex
	// state is the persisted portion of the checkpoint.
	state checkpointState
}

type checkpointState struct {
	// CompletedSeeds maps seed company number to completion time.
	CompletedSeeds map[string]time.Time `json:"completed_seeds"`

	// UpdatedAt is when the checkpoint was last saved.
	UpdatedAt time.Time `json:"updated_at"`
}

// LoadCheckpoint opens the checkpoint at path, creating an empty one if
// the file does not exist yet.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	cp := &Checkpoint{
		path: path,
		state: checkpointState{
			CompletedSeeds: make(map[string]time.Time),
		},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	if err := json.Unmarshal(data, &cp.state); err != nil {
		return nil, fmt.Errorf("failed to parse checkpoint %s: %w", path, err)
	}
	if cp.state.CompletedSeeds == nil {
		cp.state.CompletedSeeds = make(map[string]time.Time)
	}
	return cp, nil
}

// Done reports whether a seed has already completed.
func (cp *Checkpoint) Done(seed string) bool {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	_, ok := cp.state.CompletedSeeds[seed]
	return ok
}

// MarkDone records a seed as completed. The change is in-memory until
// Save is called.
func (cp *Checkpoint) MarkDone(seed string) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.state.CompletedSeeds[seed] = time.Now().UTC()
}

// CompletedCount returns the number of completed seeds.
func (cp *Checkpoint) CompletedCount() int {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return len(cp.state.CompletedSeeds)
}

// Save writes the checkpoint to disk. The file is written to a
// temporary name and renamed so an interrupted save never leaves a
// truncated checkpoint behind.
func (cp *Checkpoint) Save() error {
	cp.mu.Lock()
	cp.state.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(cp.state, "", "  ")
	cp.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	dir := filepath.Dir(cp.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	tmp := cp.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, cp.path); err != nil {
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}
	return nil
}
