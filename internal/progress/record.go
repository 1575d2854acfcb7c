package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/abhisek/usblord/internal/bank"
)

const (
	// StorageKey is the key the progress record lives under.
	StorageKey = "usbLordProgress"

	// RecordVersion is written into every saved record.
	RecordVersion = "2.0"
)

// ErrNoProgress means there is no usable saved record: the key is absent,
// the content does not parse, or the version tag is missing or foreign.
var ErrNoProgress = errors.New("no saved progress")

// Record is the persisted snapshot of learner state.
type Record struct {
	CurrentQuestion    int    `json:"currentQuestion"`
	CurrentChapter     int    `json:"currentChapter"`
	Score              int    `json:"score"`
	CompletedQuestions []int  `json:"completedQuestions"`
	GameStartTime      int64  `json:"gameStartTime"`
	SavedAt            int64  `json:"savedAt"`
	Version            string `json:"version"`
}

// completedList returns the completion set sorted. It is never nil so the
// record always serializes an array.
func completedList(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// decodeRecord parses and sanity-checks a stored record. Any failure wraps
// ErrNoProgress.
func decodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrNoProgress, err)
	}
	if err := checkVersion(rec.Version); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrNoProgress, err)
	}
	if err := rec.sane(); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrNoProgress, err)
	}
	return rec, nil
}

func (r Record) sane() error {
	if r.CurrentQuestion < 1 || r.CurrentQuestion > bank.TotalQuestions {
		return fmt.Errorf("currentQuestion %d out of range", r.CurrentQuestion)
	}
	if r.Score < 0 {
		return fmt.Errorf("negative score %d", r.Score)
	}
	if r.GameStartTime < 0 {
		return fmt.Errorf("negative gameStartTime %d", r.GameStartTime)
	}
	for _, n := range r.CompletedQuestions {
		if n < 1 || n > bank.TotalQuestions {
			return fmt.Errorf("completed question %d out of range", n)
		}
	}
	return nil
}
