package matrix_service

import "github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"

// Subscribe регистрирует наблюдателя производного состояния. Наблюдатели
// вызываются синхронно после каждого пересчета, в порядке регистрации
func (s *MatrixService) Subscribe(fn func(domain.MatrixSnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *MatrixService) notifyLocked(snapshot domain.MatrixSnapshot) {
	for _, fn := range s.subscribers {
		fn(snapshot)
	}
}
