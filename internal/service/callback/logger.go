// Package callback 提供 Eino 组件执行日志
package callback

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
)

const maxLoggedChars = 200

// Logger 日志回调处理器，实现 callbacks.Handler
type Logger struct {
	log   logrus.FieldLogger
	debug bool
}

// NewLogger 创建日志回调处理器
func NewLogger(log logrus.FieldLogger, debug bool) *Logger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Logger{log: log, debug: debug}
}

func (l *Logger) fields(info *callbacks.RunInfo) logrus.Fields {
	if info == nil {
		return logrus.Fields{}
	}
	return logrus.Fields{
		"name":      info.Name,
		"type":      info.Type,
		"component": info.Component,
	}
}

// OnStart 组件开始执行
func (l *Logger) OnStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	if l.debug {
		l.log.WithFields(l.fields(info)).WithField("input", summarizeInput(input)).Debug("eino start")
	}
	return ctx
}

// OnEnd 组件执行成功
func (l *Logger) OnEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	if l.debug {
		l.log.WithFields(l.fields(info)).WithField("output", summarizeOutput(output)).Debug("eino end")
	}
	return ctx
}

// OnError 组件执行出错
func (l *Logger) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	l.log.WithFields(l.fields(info)).WithError(err).Warn("eino error")
	return ctx
}

// OnStartWithStreamInput 流式输入开始
func (l *Logger) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo, input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	if input != nil {
		input.Close()
	}
	if l.debug {
		l.log.WithFields(l.fields(info)).Debug("eino stream start")
	}
	return ctx
}

// OnEndWithStreamOutput 流式输出结束
func (l *Logger) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo, output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	if output != nil {
		output.Close()
	}
	if l.debug {
		l.log.WithFields(l.fields(info)).Debug("eino stream end")
	}
	return ctx
}

// summarizeInput 提取模型消息数或工具参数
func summarizeInput(input callbacks.CallbackInput) string {
	switch in := input.(type) {
	case nil:
		return ""
	case *model.CallbackInput:
		return fmt.Sprintf("%d messages", len(in.Messages))
	case *tool.CallbackInput:
		return clip(in.ArgumentsInJSON)
	case string:
		return clip(in)
	default:
		return clip(fmt.Sprintf("%v", in))
	}
}

// summarizeOutput 提取模型回复或工具结果
func summarizeOutput(output callbacks.CallbackOutput) string {
	switch out := output.(type) {
	case nil:
		return ""
	case *model.CallbackOutput:
		if out.Message == nil {
			return ""
		}
		if len(out.Message.ToolCalls) > 0 {
			return fmt.Sprintf("%d tool calls", len(out.Message.ToolCalls))
		}
		return clip(out.Message.Content)
	case *tool.CallbackOutput:
		return clip(out.Response)
	case string:
		return clip(out)
	default:
		return clip(fmt.Sprintf("%v", out))
	}
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= maxLoggedChars {
		return s
	}
	return string(r[:maxLoggedChars]) + "..."
}

// SetupGlobalCallbacks 注册全局回调
func SetupGlobalCallbacks(log logrus.FieldLogger, debug bool) {
	callbacks.AppendGlobalHandlers(NewLogger(log, debug))
	logrus.WithField("debug", debug).Info("eino global callbacks registered")
}
