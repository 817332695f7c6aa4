// internal/delivery/telegram/services/trading_session/service.go
package trading_session

import (
	"context"
	"sync"
	"time"

	"crypto-exchange-trading-bot/pkg/logger"
)

// slot сессия пользователя со своим мьютексом
type slot struct {
	mu      sync.Mutex
	session Session
}

// serviceImpl реализация Service в памяти
type serviceImpl struct {
	mu    sync.Mutex
	slots map[int64]*slot

	ttl time.Duration
	now func() time.Time
}

// NewService создает хранилище с временем жизни ожидания ttl
func NewService(ttl time.Duration) Service {
	return newService(ttl, time.Now)
}

func newService(ttl time.Duration, now func() time.Time) *serviceImpl {
	return &serviceImpl{
		slots: make(map[int64]*slot),
		ttl:   ttl,
		now:   now,
	}
}

// acquire возвращает заблокированный слот пользователя.
// Слот блокируется до освобождения общего мьютекса, поэтому Sweep
// не удалит его между поиском и изменением.
func (s *serviceImpl) acquire(userID int64, create bool) (*slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[userID]
	if !ok {
		if !create {
			return nil, false
		}
		sl = &slot{session: Session{UserID: userID, Pending: Idle()}}
		s.slots[userID] = sl
	}
	sl.mu.Lock()
	return sl, true
}

func (s *serviceImpl) expiredLocked(sess *Session) bool {
	if s.ttl <= 0 || sess.Pending.IsIdle() {
		return false
	}
	return s.now().Sub(sess.TouchedAt) > s.ttl
}

// resetLocked переводит в Idle с новой версией
func (s *serviceImpl) resetLocked(sess *Session) {
	sess.Pending = Idle()
	sess.Claimed = false
	sess.Version++
	sess.TouchedAt = s.now()
}

func (s *serviceImpl) Get(userID int64) Session {
	sl, ok := s.acquire(userID, false)
	if !ok {
		return Session{UserID: userID, Pending: Idle()}
	}
	defer sl.mu.Unlock()

	if s.expiredLocked(&sl.session) {
		s.resetLocked(&sl.session)
	}
	return copySession(sl.session)
}

func (s *serviceImpl) Begin(userID int64, pending Pending) Session {
	sl, _ := s.acquire(userID, true)
	defer sl.mu.Unlock()

	sl.session.Pending = copyPending(pending)
	sl.session.Claimed = false
	sl.session.Version++
	sl.session.TouchedAt = s.now()

	logger.Debug("💬 Сессия %d: %s", userID, pending.State)
	return copySession(sl.session)
}

func (s *serviceImpl) Abandon(userID int64) bool {
	sl, ok := s.acquire(userID, false)
	if !ok {
		return false
	}
	defer sl.mu.Unlock()

	if sl.session.Pending.IsIdle() && !sl.session.Claimed {
		return false
	}
	hadPending := !s.expiredLocked(&sl.session)
	s.resetLocked(&sl.session)
	logger.Debug("💬 Сессия %d сброшена", userID)
	return hadPending
}

func (s *serviceImpl) Claim(userID int64) (Session, bool) {
	sl, ok := s.acquire(userID, false)
	if !ok {
		return Session{}, false
	}
	defer sl.mu.Unlock()

	if s.expiredLocked(&sl.session) {
		s.resetLocked(&sl.session)
		return Session{}, false
	}
	if sl.session.Pending.IsIdle() || sl.session.Claimed {
		return Session{}, false
	}

	sl.session.Claimed = true
	sl.session.Version++
	sl.session.TouchedAt = s.now()
	return copySession(sl.session), true
}

func (s *serviceImpl) Commit(claimed Session, next Pending) bool {
	sl, ok := s.acquire(claimed.UserID, false)
	if !ok {
		return false
	}
	defer sl.mu.Unlock()

	// За время сетевого вызова пришла новая команда: ее состояние главнее
	if sl.session.Version != claimed.Version {
		return false
	}

	sl.session.Pending = copyPending(next)
	sl.session.Claimed = false
	sl.session.Version++
	sl.session.TouchedAt = s.now()
	return true
}

func (s *serviceImpl) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, sl := range s.slots {
		sl.mu.Lock()
		idle := sl.session.Pending.IsIdle() && !sl.session.Claimed
		expired := s.ttl > 0 && s.now().Sub(sl.session.TouchedAt) > s.ttl
		sl.mu.Unlock()

		if idle || expired {
			delete(s.slots, userID)
			removed++
		}
	}
	return removed
}

func (s *serviceImpl) RunExpiry(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("🧹 Очистка сессий запущена (интервал %v, TTL %v)", interval, s.ttl)
	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Debug("🧹 Удалено сессий: %d", n)
			}
		case <-ctx.Done():
			logger.Info("🧹 Очистка сессий остановлена")
			return
		}
	}
}

func (s *serviceImpl) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

func copyPending(p Pending) Pending {
	if p.State == "" {
		p.State = StateIdle
	}
	if p.Data != nil {
		data := make(map[string]string, len(p.Data))
		for k, v := range p.Data {
			data[k] = v
		}
		p.Data = data
	}
	return p
}

func copySession(s Session) Session {
	s.Pending = copyPending(s.Pending)
	return s
}
