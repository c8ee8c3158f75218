package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/novvoo/go-presentation/pkg/errors"
	"github.com/novvoo/go-presentation/pkg/logger"
)

// maxBodySize 网页正文读取上限
const maxBodySize = 4 << 20

// Fetcher 通过 HTTP 获取并解析网页
type Fetcher struct {
	client *http.Client
	log    *logger.Logger
}

// NewFetcher 创建带超时的获取器
func NewFetcher(timeout time.Duration, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Fetch 获取 rawURL 并解析为 Page
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.NewNetworkError("invalid url", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewNetworkError(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	page, err := Parse(io.LimitReader(resp.Body, maxBodySize), resp.Request.URL.String())
	if err != nil {
		return nil, apperrors.NewNetworkError("cannot parse page", err)
	}
	f.log.Debug("web page fetched", "url", page.URL, "blocks", len(page.Blocks))
	return page, nil
}

// Result 一次异步加载的结果
type Result struct {
	URL  string
	Page *Page
	Err  error
}

// Service 在事件循环之外加载网页，结果通过通道送回
type Service struct {
	ctx     context.Context
	fetcher *Fetcher
	results chan Result
}

// NewService 创建异步加载服务；ctx 取消后未完成的加载随之取消
func NewService(ctx context.Context, fetcher *Fetcher) *Service {
	return &Service{
		ctx:     ctx,
		fetcher: fetcher,
		results: make(chan Result, 4),
	}
}

// Results 加载结果通道
func (s *Service) Results() <-chan Result {
	return s.results
}

// Load 实现 view.WebLoader
func (s *Service) Load(rawURL string) {
	go func() {
		page, err := s.fetcher.Fetch(s.ctx, rawURL)
		select {
		case s.results <- Result{URL: rawURL, Page: page, Err: err}:
		case <-s.ctx.Done():
		}
	}()
}
