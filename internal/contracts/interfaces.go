package contracts

import "context"

// SnapshotSource produces raw records for a new snapshot (S0)
// ⭐ SSOT: S0 데이터 소스 인터페이스
type SnapshotSource interface {
	Name() string
	Load(ctx context.Context) ([]StockRecord, error)
}

// ComponentScorer reduces a record to one component score (S2)
// ⭐ SSOT: S2 컴포넌트 스코어러 인터페이스
type ComponentScorer interface {
	Component() Component
	Score(rec *StockRecord) ComponentScore
}

// SnapshotProvider hands out the current snapshot
// ⭐ SSOT: 현재 스냅샷 조회 인터페이스
type SnapshotProvider interface {
	Current() *Snapshot
}
