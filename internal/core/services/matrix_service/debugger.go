package matrix_service

import (
	"sync"

	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
)

type MatrixServiceDebug struct {
	mu   sync.Mutex
	data []domain.DebugInfo
}

func (d *MatrixServiceDebug) AddDebugInfo(info domain.DebugInfo) {
	d.mu.Lock()
	d.data = append(d.data, info)
	d.mu.Unlock()
}
