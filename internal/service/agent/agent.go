// Package agent 提供农业问答 Agent
// 基于 eino ADK 的 ChatModelAgent，在迭代次数或时间耗尽时强制生成最终回答
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
)

const (
	agentName        = "agri_assistant"
	agentDescription = "Answers farming questions with encyclopedia, paper and web search tools"

	// SystemInstruction Agent 系统提示词
	SystemInstruction = `You are an agricultural assistant for farmers and agronomists.
You help with crops, soil, irrigation, fertilisers, pests, plant diseases, livestock and farm management.
Use the available tools when you need facts you are not sure about, and keep tool queries short.
If a question is not related to agriculture, politely say that you only answer farming-related questions.`

	// FinalAnswerInstruction 强制生成最终回答的提示
	FinalAnswerInstruction = `You have run out of time or steps for using tools.
Using the conversation and any tool results above, generate the final answer to the question now.
Do not call any tools.`
)

// Config Agent 配置
type Config struct {
	MaxIterations    int
	MaxExecutionTime time.Duration
	FallbackTimeout  time.Duration
}

// Agent 对话 Agent
type Agent struct {
	chatModel   model.ToolCallingChatModel
	tools       []tool.BaseTool
	middlewares []compose.ToolMiddleware
	cfg         Config
}

// New 创建对话 Agent
func New(chatModel model.ToolCallingChatModel, tools []tool.BaseTool, cfg Config) *Agent {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 15
	}
	if cfg.MaxExecutionTime <= 0 {
		cfg.MaxExecutionTime = 60 * time.Second
	}
	if cfg.FallbackTimeout <= 0 {
		cfg.FallbackTimeout = 20 * time.Second
	}
	return &Agent{
		chatModel:   chatModel,
		tools:       tools,
		middlewares: DefaultMiddlewares(),
		cfg:         cfg,
	}
}

// Answer 回答问题，memory 为此前的对话记录
// 达到迭代或时间上限时通过一次无工具调用生成最终回答，而不是返回错误
func (a *Agent) Answer(ctx context.Context, question string, memory []*schema.Message) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, a.cfg.MaxExecutionTime)
	defer cancel()

	messages := make([]*schema.Message, 0, len(memory)+1)
	messages = append(messages, memory...)
	messages = append(messages, schema.UserMessage(question))

	answer, trace, runErr := a.run(runCtx, messages)
	if runErr == nil && answer != "" {
		return answer, nil
	}

	// 调用方已取消时不再兜底
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	logrus.WithFields(logrus.Fields{
		"reason":      describeStop(runErr),
		"trace_steps": len(trace),
	}).Warn("agent stopped early, generating final answer")

	return a.forceFinalAnswer(ctx, messages, trace)
}

// run 运行一次 ReAct 循环，返回最终回答和中间步骤
func (a *Agent) run(ctx context.Context, messages []*schema.Message) (string, []*schema.Message, error) {
	einoAgent, err := a.build(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create agent: %w", err)
	}

	iter := einoAgent.Run(ctx, &adk.AgentInput{
		Messages:        messages,
		EnableStreaming: false,
	})

	var (
		answer string
		trace  []*schema.Message
	)
	for {
		event, ok := iter.Next()
		if !ok {
			break
		}

		if event.Err != nil {
			if errors.Is(event.Err, io.EOF) {
				break
			}
			return "", trace, event.Err
		}

		if event.Output == nil || event.Output.MessageOutput == nil {
			continue
		}
		msg, err := event.Output.MessageOutput.GetMessage()
		if err != nil || msg == nil {
			continue
		}

		trace = append(trace, msg)
		if msg.Role == schema.Assistant && len(msg.ToolCalls) == 0 {
			answer = strings.TrimSpace(msg.Content)
		}
	}

	if ctx.Err() != nil {
		return "", trace, ctx.Err()
	}
	return answer, trace, nil
}

// build 创建 eino ChatModelAgent
func (a *Agent) build(ctx context.Context) (*adk.ChatModelAgent, error) {
	cfg := &adk.ChatModelAgentConfig{
		Name:          agentName,
		Description:   agentDescription,
		Instruction:   SystemInstruction,
		Model:         a.chatModel,
		MaxIterations: a.cfg.MaxIterations,
	}

	if len(a.tools) > 0 {
		cfg.ToolsConfig = adk.ToolsConfig{
			ToolsNodeConfig: compose.ToolsNodeConfig{
				Tools:               a.tools,
				ToolCallMiddlewares: a.middlewares,
			},
		}
	}

	return adk.NewChatModelAgent(ctx, cfg)
}

// forceFinalAnswer 基于已有中间结果直接生成回答
func (a *Agent) forceFinalAnswer(ctx context.Context, messages, trace []*schema.Message) (string, error) {
	fbCtx, cancel := context.WithTimeout(ctx, a.cfg.FallbackTimeout)
	defer cancel()

	input := make([]*schema.Message, 0, len(messages)+len(trace)+2)
	input = append(input, schema.SystemMessage(SystemInstruction))
	input = append(input, messages...)
	input = append(input, summarizeTrace(trace)...)
	input = append(input, schema.UserMessage(FinalAnswerInstruction))

	resp, err := a.chatModel.Generate(fbCtx, input)
	if err != nil {
		return "", fmt.Errorf("failed to generate final answer: %w", err)
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return "", errors.New("agent produced an empty answer")
	}
	return answer, nil
}

// summarizeTrace 将工具调用轨迹转为纯文本，避免兜底调用携带未配对的 tool call
func summarizeTrace(trace []*schema.Message) []*schema.Message {
	var sb strings.Builder
	for _, msg := range trace {
		switch msg.Role {
		case schema.Assistant:
			if thought := strings.TrimSpace(msg.Content); thought != "" {
				fmt.Fprintf(&sb, "Thought: %s\n", thought)
			}
			for _, tc := range msg.ToolCalls {
				fmt.Fprintf(&sb, "Action: %s %s\n", tc.Function.Name, tc.Function.Arguments)
			}
		case schema.Tool:
			fmt.Fprintf(&sb, "Observation: %s\n", strings.TrimSpace(msg.Content))
		}
	}
	if sb.Len() == 0 {
		return nil
	}
	return []*schema.Message{schema.AssistantMessage(sb.String(), nil)}
}

func describeStop(err error) string {
	switch {
	case err == nil:
		return "no final answer"
	case errors.Is(err, context.DeadlineExceeded):
		return "time limit reached"
	default:
		return err.Error()
	}
}
