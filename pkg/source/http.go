// Package source - HTTP实现
// 通过时间表服务的 GET /api/timetable?date=yyyy-MM-dd 获取日程
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

// TimetablePath 时间表服务的查询路径
const TimetablePath = "/api/timetable"

// maxResponseSize 响应体大小上限
const maxResponseSize = 1 << 20

// HTTPSource 远程时间表服务数据源
type HTTPSource struct {
	baseURL *url.URL
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPSource 创建HTTP数据源，使用带重试和退避的HTTP客户端
func NewHTTPSource(config *Config, logger zerolog.Logger) (*HTTPSource, error) {
	base, err := url.Parse(strings.TrimSpace(config.Location))
	if err != nil {
		return nil, fmt.Errorf("无效的数据源URL: %w", err)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = config.MaxRetries
	retryClient.RetryWaitMin = config.RetryWaitMin
	retryClient.RetryWaitMax = config.RetryWaitMax
	retryClient.HTTPClient.Timeout = config.Timeout
	retryClient.Logger = retryablehttp.LeveledLogger(leveledZerolog{inner: logger})
	retryClient.CheckRetry = retryPolicy

	return &HTTPSource{
		baseURL: base,
		client:  retryClient.StandardClient(),
		logger:  logger,
	}, nil
}

// retryPolicy 在retryablehttp默认策略基础上，429不重试，交给下一次刷新处理
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil && resp.StatusCode == http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// endpoint 构造指定日期的查询地址
func (h *HTTPSource) endpoint(date core.Date) string {
	u := *h.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + TimetablePath
	q := u.Query()
	q.Set("date", date.String())
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchItems 实现core.DataSource接口
func (h *HTTPSource) FetchItems(ctx context.Context, date core.Date) ([]core.ScheduleItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint(date), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求时间表失败: %w", err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxResponseSize)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(body).Decode(&apiErr)
		if apiErr.Error != "" {
			return nil, fmt.Errorf("时间表服务返回 HTTP %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("时间表服务返回 HTTP %d", resp.StatusCode)
	}

	var items []core.ScheduleItem
	if err := json.NewDecoder(body).Decode(&items); err != nil {
		return nil, fmt.Errorf("解析时间表失败: %w", err)
	}
	if items == nil {
		items = []core.ScheduleItem{}
	}

	// 数据源负责交付有序的日程项
	if !core.IsSorted(items) {
		h.logger.Debug().Str("date", date.String()).Msg("sorting unsorted timetable response")
		core.SortItems(items)
	}

	return items, nil
}
