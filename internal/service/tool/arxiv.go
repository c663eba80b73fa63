package tool

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/mmcdole/gofeed"
)

const (
	defaultArxivBaseURL = "https://export.arxiv.org/api/query"
	maxArxivQueryLength = 300
	noArxivResult       = "No good Arxiv Result was found"
)

// ArxivConfig 学术论文工具配置
type ArxivConfig struct {
	BaseURL     string
	TopK        int
	DocMaxChars int
	HTTPClient  *http.Client
}

// ArxivInput arxiv 工具输入参数
type ArxivInput struct {
	Query string `json:"query" jsonschema_description:"Search query for scientific papers, e.g. 'wheat rust resistance'"`
}

// arxivSearcher 基于 arXiv Atom API 的检索
type arxivSearcher struct {
	cfg    ArxivConfig
	parser *gofeed.Parser
}

// NewArxivTool 创建 arXiv 论文摘要工具
func NewArxivTool(cfg ArxivConfig) (tool.InvokableTool, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultArxivBaseURL
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 1
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}

	parser := gofeed.NewParser()
	parser.Client = cfg.HTTPClient

	s := &arxivSearcher{cfg: cfg, parser: parser}
	desc := KindAcademic.Describe()
	return utils.InferTool(desc.Name, desc.Description, s.search)
}

// search 查询论文并拼接摘要
func (s *arxivSearcher) search(ctx context.Context, input *ArxivInput) (string, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return "", errors.New("query is required")
	}
	query = Truncate(query, maxArxivQueryLength)

	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(s.cfg.TopK))

	feed, err := s.parser.ParseURLWithContext(s.cfg.BaseURL+"?"+params.Encode(), ctx)
	if err != nil {
		return "", fmt.Errorf("arxiv query failed: %w", err)
	}
	if len(feed.Items) == 0 {
		return noArxivResult, nil
	}

	docs := make([]string, 0, len(feed.Items))
	for i, item := range feed.Items {
		if i >= s.cfg.TopK {
			break
		}
		docs = append(docs, formatArxivItem(item))
	}

	return Truncate(strings.Join(docs, "\n\n"), s.cfg.DocMaxChars), nil
}

func formatArxivItem(item *gofeed.Item) string {
	published := item.Published
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.Format("2006-01-02")
	}

	authors := make([]string, 0, len(item.Authors))
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Published: %s\n", published)
	fmt.Fprintf(&sb, "Title: %s\n", collapseSpace(item.Title))
	fmt.Fprintf(&sb, "Authors: %s\n", strings.Join(authors, ", "))
	fmt.Fprintf(&sb, "Summary: %s", collapseSpace(item.Description))
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
