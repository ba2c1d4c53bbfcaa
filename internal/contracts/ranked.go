package contracts

// ScoredRecord is a record with its component and final scores (S3 → S4 → output)
// ⭐ SSOT: 최종 스크리닝 결과 단위
type ScoredRecord struct {
	Record     StockRecord  `json:"record"`
	Rank       int          `json:"rank"`        // 1-based, 0 before ranking
	FinalScore float64      `json:"final_score"` // 0 ~ 100
	Components ComponentSet `json:"components"`

	// position in the snapshot, used as the last tie-breaker
	Ordinal int `json:"-"`
}
