package session

import (
	"sync"
	"time"

	"github.com/ashwinyue/agri-assist/internal/model"
	"github.com/cloudwego/eino/schema"
)

// State 单个会话的内存状态
// 对话记录只追加，仅在 Reset 时整体清空；memory 为 Agent 使用的有界上下文
type State struct {
	ID        string
	CreatedAt time.Time

	// reqMu 串行化同一会话的请求
	reqMu sync.Mutex

	mu         sync.RWMutex
	transcript []model.ChatTurn
	memory     []*schema.Message
	lastActive time.Time
}

func newState(id string, now time.Time) *State {
	return &State{
		ID:         id,
		CreatedAt:  now,
		lastActive: now,
	}
}

// Lock 独占会话直到 Unlock，用于一次完整的请求处理
func (s *State) Lock() { s.reqMu.Lock() }

// Unlock 释放会话
func (s *State) Unlock() { s.reqMu.Unlock() }

// AppendTurn 追加一条对话记录
func (s *State) AppendTurn(role model.Role, content string) model.ChatTurn {
	turn := model.NewChatTurn(role, content)

	s.mu.Lock()
	s.transcript = append(s.transcript, turn)
	s.lastActive = turn.CreatedAt
	s.mu.Unlock()

	return turn
}

// Transcript 返回对话记录副本
func (s *State) Transcript() []model.ChatTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ChatTurn{}, s.transcript...)
}

// Memory 返回对话记忆副本
func (s *State) Memory() []*schema.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*schema.Message{}, s.memory...)
}

// TrimMemory 只保留最近 n 条记忆，丢弃最早的
func (s *State) TrimMemory(n int) {
	if n < 0 {
		n = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.memory) > n {
		kept := make([]*schema.Message, n)
		copy(kept, s.memory[len(s.memory)-n:])
		s.memory = kept
	}
}

// Remember 记录一轮问答
func (s *State) Remember(question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.memory = append(s.memory,
		schema.UserMessage(question),
		schema.AssistantMessage(answer, nil),
	)
}

// Reset 清空对话记录与记忆
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript = nil
	s.memory = nil
	s.lastActive = time.Now()
}

// touch 刷新活跃时间
func (s *State) touch(now time.Time) {
	s.mu.Lock()
	if now.After(s.lastActive) {
		s.lastActive = now
	}
	s.mu.Unlock()
}

// LastActive 最近活跃时间
func (s *State) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}
