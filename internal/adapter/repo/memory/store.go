package memory

import (
	"sync"

	"urbandesign/internal/app/ports"
)

type Store struct {
	txMu    sync.Mutex
	mu      sync.RWMutex
	history map[string][]ports.BuildBatchRecord
}

func NewStore() *Store {
	return &Store{
		history: make(map[string][]ports.BuildBatchRecord),
	}
}
