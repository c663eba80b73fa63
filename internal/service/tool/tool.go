// Package tool 提供对话 Agent 可调用的固定工具集
// 工具集是封闭的：百科、学术论文、网络搜索三种，参数在构建时固定
package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ashwinyue/agri-assist/internal/config"
	"github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	wikipediatool "github.com/cloudwego/eino-ext/components/tool/wikipedia"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
)

// Kind 工具种类
type Kind int

const (
	KindEncyclopedia Kind = iota
	KindAcademic
	KindWebSearch
)

// Kinds 全部工具种类，顺序即注册顺序
var Kinds = []Kind{KindEncyclopedia, KindAcademic, KindWebSearch}

// Descriptor 工具声明
type Descriptor struct {
	Kind        Kind   `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Describe 返回工具种类的名称与描述
func (k Kind) Describe() Descriptor {
	switch k {
	case KindEncyclopedia:
		return Descriptor{
			Kind: k,
			Name: "wikipedia",
			Description: "A wrapper around Wikipedia. Useful for when you need to answer general questions about " +
				"crops, plants, pests, diseases, places, people or historical events. Input should be a search query.",
		}
	case KindAcademic:
		return Descriptor{
			Kind: k,
			Name: "arxiv",
			Description: "A wrapper around Arxiv.org. Useful for when you need to answer questions about agronomy, " +
				"plant pathology or other scientific research from published papers. Input should be a search query.",
		}
	case KindWebSearch:
		return Descriptor{
			Kind: k,
			Name: "duckduckgo_search",
			Description: "A wrapper around DuckDuckGo Search. Useful for when you need to answer questions about " +
				"current events, market prices, weather or recent agricultural news. Input should be a search query.",
		}
	default:
		panic(fmt.Sprintf("tool: unknown kind %d", int(k)))
	}
}

// String 工具名称
func (k Kind) String() string {
	return k.Describe().Name
}

// Descriptors 返回全部工具声明
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(Kinds))
	for _, k := range Kinds {
		out = append(out, k.Describe())
	}
	return out
}

// Options 构建选项
type Options struct {
	Config config.ToolsConfig
	// Builders 按种类覆盖底层实现，测试时注入
	Builders map[Kind]Builder
}

// Builder 构建底层工具
type Builder func(ctx context.Context, cfg config.ToolsConfig) (tool.InvokableTool, error)

// New 构建指定种类的工具
// 底层工具创建失败时返回占位工具，调用时给出不可用提示
func New(ctx context.Context, kind Kind, opts Options) tool.InvokableTool {
	desc := kind.Describe()

	build, ok := opts.Builders[kind]
	if !ok {
		build = defaultBuilder(kind)
	}

	inner, err := build(ctx, opts.Config)
	if err != nil {
		logrus.WithError(err).WithField("tool", desc.Name).Warn("failed to create tool, using stub")
		return &stubTool{desc: desc}
	}

	bt := &boundedTool{desc: desc, inner: inner, maxChars: opts.Config.DocMaxChars}
	if kind == KindWebSearch {
		// 搜索结果以条数限制，时间窗口作为默认参数注入
		bt.maxChars = 0
		if opts.Config.SearchTimeRange != "" {
			bt.defaults = map[string]any{searchTimeRangeArg: opts.Config.SearchTimeRange}
		}
	}
	return bt
}

// NewSet 构建完整工具集
func NewSet(ctx context.Context, opts Options) []tool.BaseTool {
	tools := make([]tool.BaseTool, 0, len(Kinds))
	for _, k := range Kinds {
		tools = append(tools, New(ctx, k, opts))
	}
	return tools
}

func defaultBuilder(kind Kind) Builder {
	switch kind {
	case KindEncyclopedia:
		return newWikipediaTool
	case KindAcademic:
		return func(ctx context.Context, cfg config.ToolsConfig) (tool.InvokableTool, error) {
			return NewArxivTool(ArxivConfig{
				BaseURL:     cfg.ArxivBaseURL,
				TopK:        cfg.TopK,
				DocMaxChars: cfg.DocMaxChars,
			})
		}
	case KindWebSearch:
		return newWebSearchTool
	default:
		panic(fmt.Sprintf("tool: unknown kind %d", int(kind)))
	}
}

// newWikipediaTool 创建百科工具 (eino-ext wikipedia)
func newWikipediaTool(ctx context.Context, cfg config.ToolsConfig) (tool.InvokableTool, error) {
	lang := cfg.WikipediaLanguage
	if lang == "" {
		lang = "en"
	}
	return wikipediatool.NewTool(ctx, &wikipediatool.Config{
		Language: lang,
		TopK:     cfg.TopK,
	})
}

// newWebSearchTool 创建网络搜索工具 (eino-ext duckduckgo)
func newWebSearchTool(ctx context.Context, cfg config.ToolsConfig) (tool.InvokableTool, error) {
	desc := KindWebSearch.Describe()
	return duckduckgo.NewTextSearchTool(ctx, &duckduckgo.Config{
		ToolName:   desc.Name,
		ToolDesc:   desc.Description,
		MaxResults: cfg.SearchMaxResults,
	})
}

// ========== 工具包装 ==========

// searchTimeRangeArg 搜索请求中的时间窗口参数
const searchTimeRangeArg = "time_range"

// boundedTool 统一工具名称与描述，补齐默认参数并截断输出
type boundedTool struct {
	desc     Descriptor
	inner    tool.InvokableTool
	maxChars int
	defaults map[string]any
}

func (t *boundedTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	info, err := t.inner.Info(ctx)
	if err != nil {
		return nil, err
	}
	out := *info
	out.Name = t.desc.Name
	out.Desc = t.desc.Description
	return &out, nil
}

func (t *boundedTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	args, err := withDefaults(argumentsInJSON, t.defaults)
	if err != nil {
		return "", fmt.Errorf("%s: invalid arguments: %w", t.desc.Name, err)
	}

	result, err := t.inner.InvokableRun(ctx, args, opts...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", t.desc.Name, err)
	}
	return Truncate(result, t.maxChars), nil
}

// withDefaults 为调用参数补齐缺省字段，已有字段保持不变
func withDefaults(argumentsInJSON string, defaults map[string]any) (string, error) {
	if len(defaults) == 0 {
		return argumentsInJSON, nil
	}

	args := make(map[string]any)
	if err := json.Unmarshal([]byte(argumentsInJSON), &args); err != nil {
		return "", err
	}
	for k, v := range defaults {
		if _, ok := args[k]; !ok {
			args[k] = v
		}
	}

	out, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// stubTool 占位工具
type stubTool struct {
	desc Descriptor
}

func (t *stubTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: t.desc.Name,
		Desc: t.desc.Description + " (unavailable)",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {
				Type:     schema.String,
				Desc:     "The search query",
				Required: true,
			},
		}),
	}, nil
}

func (t *stubTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	return fmt.Sprintf(`{"error":"%s is not available"}`, t.desc.Name), nil
}

// Truncate 按字符截断，maxChars <= 0 时不截断
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

// ListNames 列出工具名称
func ListNames(ctx context.Context, tools []tool.BaseTool) []string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			continue
		}
		names = append(names, info.Name)
	}
	return names
}
