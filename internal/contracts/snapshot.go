package contracts

import (
	"strings"
	"time"
)

// Snapshot is an immutable, versioned view of the whole universe
// ⭐ SSOT: S0 → S1 전달 단위. 생성 후 절대 수정하지 않음
type Snapshot struct {
	Generation uint64    `json:"generation"`
	LoadedAt   time.Time `json:"loaded_at"`
	Source     string    `json:"source"`

	records  []StockRecord
	bySymbol map[string]int
	byISIN   map[string]int
}

// NewSnapshot deep-copies the given records into a new snapshot.
// Records handed out by the accessors are deep copies too.
func NewSnapshot(records []StockRecord, generation uint64, source string, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		Generation: generation,
		LoadedAt:   loadedAt,
		Source:     source,
		records:    make([]StockRecord, len(records)),
		bySymbol:   make(map[string]int, len(records)),
		byISIN:     make(map[string]int, len(records)),
	}
	for i := range records {
		s.records[i] = records[i].Clone()
	}

	for i := range s.records {
		if sym := strings.ToUpper(s.records[i].Symbol); sym != "" {
			if _, dup := s.bySymbol[sym]; !dup {
				s.bySymbol[sym] = i
			}
		}
		if isin := strings.ToUpper(s.records[i].ISIN); isin != "" {
			if _, dup := s.byISIN[isin]; !dup {
				s.byISIN[isin] = i
			}
		}
	}
	return s
}

// Len returns the number of records
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// At returns the i-th record in snapshot order
func (s *Snapshot) At(i int) StockRecord {
	return s.records[i].Clone()
}

// Records returns a copy of all records in snapshot order
func (s *Snapshot) Records() []StockRecord {
	if s == nil {
		return nil
	}
	out := make([]StockRecord, len(s.records))
	for i := range s.records {
		out[i] = s.records[i].Clone()
	}
	return out
}

// FindBySymbol looks a record up by exchange code (case-insensitive)
func (s *Snapshot) FindBySymbol(symbol string) (StockRecord, bool) {
	if s == nil {
		return StockRecord{}, false
	}
	i, ok := s.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return StockRecord{}, false
	}
	return s.records[i].Clone(), true
}

// FindByISIN looks a record up by ISIN (case-insensitive)
func (s *Snapshot) FindByISIN(isin string) (StockRecord, bool) {
	if s == nil {
		return StockRecord{}, false
	}
	i, ok := s.byISIN[strings.ToUpper(strings.TrimSpace(isin))]
	if !ok {
		return StockRecord{}, false
	}
	return s.records[i].Clone(), true
}
