// Package session 提供内存会话管理
// 会话只存在于进程内存中，空闲超时后由后台清理
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNotFound 会话不存在
var ErrNotFound = errors.New("session not found")

// Manager 会话管理器
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*State
	now      func() time.Time
}

// NewManager 创建会话管理器
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*State),
		now:      time.Now,
	}
}

// Create 创建会话
func (m *Manager) Create() *State {
	s := newState(uuid.New().String(), m.now())

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	logrus.WithField("session_id", s.ID).Debug("session created")
	return s
}

// Get 获取会话并刷新活跃时间
func (m *Manager) Get(id string) (*State, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Delete 结束会话
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	logrus.WithField("session_id", id).Debug("session deleted")
	return nil
}

// Len 当前会话数量
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep 删除空闲超过 ttl 的会话，正在处理请求的会话跳过
func (m *Manager) Sweep(ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if !s.LastActive().Before(cutoff) {
			continue
		}
		if !s.reqMu.TryLock() {
			continue
		}
		delete(m.sessions, id)
		s.reqMu.Unlock()
		removed++
	}
	return removed
}

// RunSweeper 定期清理空闲会话，直到 ctx 取消
func (m *Manager) RunSweeper(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 || ttl <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(ttl); n > 0 {
				logrus.WithFields(logrus.Fields{
					"removed":   n,
					"remaining": m.Len(),
				}).Info("idle sessions swept")
			}
		}
	}
}
