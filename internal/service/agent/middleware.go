package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/kaptinlin/jsonrepair"
	"github.com/sirupsen/logrus"
)

// ========== 工具错误转观察结果 ==========

// ObservationFunc 将工具错误转换为返回给模型的观察文本
type ObservationFunc func(ctx context.Context, in *compose.ToolInput, err error) string

// DefaultObservation 默认错误观察文本
func DefaultObservation(ctx context.Context, in *compose.ToolInput, err error) string {
	return fmt.Sprintf("Tool '%s' failed: %s. Try a different query or answer from what you already know.", in.Name, err.Error())
}

// NewObservationMiddleware 工具调用失败时返回观察文本，不中断 Agent
func NewObservationMiddleware(observe ObservationFunc) compose.ToolMiddleware {
	if observe == nil {
		observe = DefaultObservation
	}

	toObservation := func(ctx context.Context, in *compose.ToolInput, err error) (string, bool) {
		// 中断重跑错误需要向上传递
		if _, ok := compose.IsInterruptRerunError(err); ok {
			return "", false
		}
		logrus.WithError(err).WithField("tool", in.Name).Warn("tool call failed")
		return observe(ctx, in, err), true
	}

	return compose.ToolMiddleware{
		Invokable: func(next compose.InvokableToolEndpoint) compose.InvokableToolEndpoint {
			return func(ctx context.Context, in *compose.ToolInput) (*compose.ToolOutput, error) {
				output, err := next(ctx, in)
				if err == nil {
					return output, nil
				}
				result, ok := toObservation(ctx, in, err)
				if !ok {
					return nil, err
				}
				return &compose.ToolOutput{Result: result}, nil
			}
		},
		Streamable: func(next compose.StreamableToolEndpoint) compose.StreamableToolEndpoint {
			return func(ctx context.Context, in *compose.ToolInput) (*compose.StreamToolOutput, error) {
				output, err := next(ctx, in)
				if err == nil {
					return output, nil
				}
				result, ok := toObservation(ctx, in, err)
				if !ok {
					return nil, err
				}
				return &compose.StreamToolOutput{
					Result: schema.StreamReaderFromArray([]string{result}),
				}, nil
			}
		},
	}
}

// ========== 参数修复 ==========

// NewArgumentRepairMiddleware 修复模型生成的不规范 JSON 参数
func NewArgumentRepairMiddleware() compose.ToolMiddleware {
	return compose.ToolMiddleware{
		Invokable: func(next compose.InvokableToolEndpoint) compose.InvokableToolEndpoint {
			return func(ctx context.Context, in *compose.ToolInput) (*compose.ToolOutput, error) {
				in.Arguments = RepairArguments(in.Arguments)
				return next(ctx, in)
			}
		},
		Streamable: func(next compose.StreamableToolEndpoint) compose.StreamableToolEndpoint {
			return func(ctx context.Context, in *compose.ToolInput) (*compose.StreamToolOutput, error) {
				in.Arguments = RepairArguments(in.Arguments)
				return next(ctx, in)
			}
		},
	}
}

// RepairArguments 修复工具参数
// 纯文本参数视为 query 字段
func RepairArguments(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return "{}"
	}
	if json.Valid([]byte(s)) && strings.HasPrefix(s, "{") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	i := strings.IndexByte(s, '{')
	j := strings.LastIndexByte(s, '}')
	switch {
	case i >= 0 && j > i:
		s = s[i : j+1]
	case i >= 0:
		s = s[i:]
	default:
		// 模型直接给出了查询文本
		raw, _ := json.Marshal(map[string]string{"query": strings.Trim(s, `"'`)})
		return string(raw)
	}

	if json.Valid([]byte(s)) {
		return s
	}

	out, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return s
	}
	return out
}

// DefaultMiddlewares 默认中间件：先修复参数，再兜底错误
func DefaultMiddlewares() []compose.ToolMiddleware {
	return []compose.ToolMiddleware{
		NewArgumentRepairMiddleware(),
		NewObservationMiddleware(nil),
	}
}
