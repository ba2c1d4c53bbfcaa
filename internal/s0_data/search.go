package s0_data

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/pkg/logger"
)

// DefaultSearchLimit caps search results when no limit is given
const DefaultSearchLimit = 20

// searchDoc is the indexed view of a record; the document ID is its snapshot position
type searchDoc struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	ISIN     string `json:"isin"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// SearchIndex is an in-memory full-text index over one snapshot
// ⭐ SSOT: 종목 검색 인덱스는 여기서만
//
// Rebuild replaces the whole index; searches against the previous generation
// finish on the old index.
type SearchIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	snap   *contracts.Snapshot
	logger *logger.Logger
}

// NewSearchIndex creates an empty index
func NewSearchIndex(log *logger.Logger) *SearchIndex {
	return &SearchIndex{logger: log}
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Store = false
	textFieldMapping.Index = true
	for _, field := range []string{"name", "symbol", "isin", "sector", "industry"} {
		docMapping.AddFieldMappingsAt(field, textFieldMapping)
	}

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Rebuild indexes every record of snap
func (s *SearchIndex) Rebuild(snap *contracts.Snapshot) error {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	batch := index.NewBatch()
	for i := 0; i < snap.Len(); i++ {
		rec := snap.At(i)
		doc := searchDoc{
			Name:     rec.Name,
			Symbol:   rec.Symbol,
			ISIN:     rec.ISIN,
			Sector:   rec.Sector,
			Industry: rec.Industry,
		}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			index.Close()
			return fmt.Errorf("failed to add to batch: %w", err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return fmt.Errorf("failed to execute batch: %w", err)
	}

	s.mu.Lock()
	old := s.index
	s.index = index
	s.snap = snap
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}

	s.logger.WithFields(map[string]interface{}{
		"generation": snap.Generation,
		"documents":  snap.Len(),
	}).Debug("Search index rebuilt")

	return nil
}

// Generation returns the snapshot generation the index was built from
func (s *SearchIndex) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return 0
	}
	return s.snap.Generation
}

// Search matches q against symbol, ISIN, name, sector and industry.
// Exact and prefix symbol matches rank first.
func (s *SearchIndex) Search(q string, limit int) ([]contracts.StockRecord, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []contracts.StockRecord{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return []contracts.StockRecord{}, nil
	}

	lower := strings.ToLower(q)

	exactSymbol := bleve.NewTermQuery(lower)
	exactSymbol.SetField("symbol")
	exactSymbol.SetBoost(10.0)

	prefixSymbol := bleve.NewPrefixQuery(lower)
	prefixSymbol.SetField("symbol")
	prefixSymbol.SetBoost(5.0)

	exactISIN := bleve.NewTermQuery(lower)
	exactISIN.SetField("isin")
	exactISIN.SetBoost(10.0)

	name := bleve.NewMatchQuery(q)
	name.SetField("name")
	name.SetBoost(3.0)

	prefixName := bleve.NewPrefixQuery(lower)
	prefixName.SetField("name")
	prefixName.SetBoost(2.0)

	sector := bleve.NewMatchQuery(q)
	sector.SetField("sector")

	industry := bleve.NewMatchQuery(q)
	industry.SetField("industry")

	query := bleve.NewDisjunctionQuery(exactSymbol, prefixSymbol, exactISIN, name, prefixName, sector, industry)

	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	out := make([]contracts.StockRecord, 0, len(res.Hits))
	for _, hit := range res.Hits {
		i, err := strconv.Atoi(hit.ID)
		if err != nil || i < 0 || i >= s.snap.Len() {
			continue
		}
		out = append(out, s.snap.At(i))
	}
	return out, nil
}

// Close releases the index
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}
