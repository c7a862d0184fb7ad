package storage

import (
	"swapcore/internal/model"
)

// Storage is the sink for processed swap results.
type Storage interface {
	PutResultBatch(results []model.SwapResult) error
}
