package model

import "time"

// Role 对话角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn 一轮对话记录，追加后不可修改
type ChatTurn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewChatTurn 创建对话记录
func NewChatTurn(role Role, content string) ChatTurn {
	return ChatTurn{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
