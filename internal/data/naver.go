package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/small-creator/naverland-ho-tele/internal/biz"
	"github.com/small-creator/naverland-ho-tele/internal/conf"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	defaultArticleBase = "https://new.land.naver.com"
	defaultAgencyBase  = "https://m.land.naver.com"
	defaultPageCap     = 10
	defaultPageDelay   = 300 * time.Millisecond
	defaultHTTPTimeout = 10 * time.Second

	// catalogPageSize is the upstream's page size when the response omits it.
	catalogPageSize = 20

	// brokerCacheSize bounds the article→broker LRU. Ownership of an article
	// does not change between a user's retries, so cache hits skip one
	// authenticated upstream call.
	brokerCacheSize = 512

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// realtorIDPaths lists the JSON paths where the article detail response may
// carry the broker id, tried in order.
var realtorIDPaths = [][]string{
	{"articleAddition", "articleRealtor", "realtorId"},
	{"articleAddition", "realtorId"},
	{"articleRealtor", "realtorId"},
	{"realtorId"},
}

// catalogPage is one page of a broker's public listing feed.
type catalogPage struct {
	List []struct {
		AtclNo   string `json:"atclNo"`
		AtclNm   string `json:"atclNm"`
		PrcInfo  string `json:"prcInfo"`
		TradTpNm string `json:"tradTpNm"`
		DtlAddr  string `json:"dtlAddr"`
	} `json:"list"`
	PageSize int `json:"pageSize"`
}

// NaverClient implements biz.ListingSource against the Naver Land endpoints.
//
// The article detail endpoint needs the operator-supplied bearer token and
// cookie header; the agency feed endpoint only needs the cookies. Both reject
// unadorned clients, so every request carries a browser user agent.
type NaverClient struct {
	httpClient *http.Client

	bearerToken  string
	cookieHeader string
	articleBase  string
	agencyBase   string
	pageCap      int
	pageDelay    time.Duration

	brokerCache *lru.Cache[string, string]
	logger      *log.Helper
}

// NewNaverClient creates the listing source from configuration.
func NewNaverClient(c *conf.Naver, logger log.Logger) (*NaverClient, error) {
	client := &NaverClient{
		httpClient:  &http.Client{Timeout: defaultHTTPTimeout},
		articleBase: defaultArticleBase,
		agencyBase:  defaultAgencyBase,
		pageCap:     defaultPageCap,
		pageDelay:   defaultPageDelay,
		logger:      log.NewHelper(logger),
	}

	if c != nil {
		client.bearerToken = c.BearerToken
		client.cookieHeader = c.CookieHeader
		if c.ArticleBase != "" {
			client.articleBase = c.ArticleBase
		}
		if c.AgencyBase != "" {
			client.agencyBase = c.AgencyBase
		}
		if c.PageCap > 0 {
			client.pageCap = int(c.PageCap)
		}
		if c.PageDelay != nil {
			client.pageDelay = c.PageDelay.AsDuration()
		}
		if c.Timeout != nil {
			client.httpClient.Timeout = c.Timeout.AsDuration()
		}
	}

	cache, err := lru.New[string, string](brokerCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create broker cache: %w", err)
	}
	client.brokerCache = cache

	return client, nil
}

// ResolveBroker returns the broker id owning the article, or "" when the
// upstream has no broker for it. A non-200 response means the article does not
// exist or the session credentials lapsed; both read as "no broker", not as an
// error, so the caller can report a user-level miss.
func (n *NaverClient) ResolveBroker(ctx context.Context, articleNo string) (string, error) {
	if brokerID, ok := n.brokerCache.Get(articleNo); ok {
		return brokerID, nil
	}

	endpoint := fmt.Sprintf("%s/api/articles/%s?complexNo=", n.articleBase, url.PathEscape(articleNo))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build article request: %w", err)
	}

	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "ko,en-US;q=0.9,en;q=0.8")
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Referer", fmt.Sprintf("%s/articles/%s", n.articleBase, articleNo))
	if n.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+n.bearerToken)
	}
	if n.cookieHeader != "" {
		req.Header.Set("Cookie", n.cookieHeader)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("article request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.logger.Warnw("msg", "article detail returned non-200",
			"article_no", articleNo,
			"status", resp.StatusCode)
		return "", nil
	}

	var detail map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return "", fmt.Errorf("failed to decode article detail: %w", err)
	}

	brokerID := extractRealtorID(detail)
	if brokerID != "" {
		n.brokerCache.Add(articleNo, brokerID)
	}
	return brokerID, nil
}

// extractRealtorID walks the known JSON paths and returns the first non-empty
// broker id.
func extractRealtorID(detail map[string]interface{}) string {
	for _, path := range realtorIDPaths {
		if id := dig(detail, path); id != "" {
			return id
		}
	}
	return ""
}

// dig follows one key path through nested JSON objects.
func dig(node map[string]interface{}, path []string) string {
	var current interface{} = node
	for _, key := range path {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current = obj[key]
	}
	switch v := current.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}

// SearchCatalog pages through the broker's feed until the article turns up,
// the feed runs out, or the page cap is reached. A non-200 page is skipped but
// still counts toward the cap. Pages after the first are fetched after a short
// delay so the walk does not hammer the upstream.
func (n *NaverClient) SearchCatalog(ctx context.Context, brokerID, articleNo string) (*biz.ListingRecord, error) {
	for page := 1; page <= n.pageCap; page++ {
		if page > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(n.pageDelay):
			}
		}

		entries, pageSize, err := n.fetchCatalogPage(ctx, brokerID, page)
		if err != nil {
			return nil, err
		}
		if entries == nil {
			// non-200 page, skip but keep counting
			continue
		}
		if len(entries.List) == 0 {
			return nil, nil
		}

		for _, entry := range entries.List {
			if entry.AtclNo == articleNo {
				return &biz.ListingRecord{
					ArticleNo:     entry.AtclNo,
					ComplexName:   entry.AtclNm,
					RawPrice:      entry.PrcInfo,
					TradeType:     entry.TradTpNm,
					DetailAddress: entry.DtlAddr,
				}, nil
			}
		}

		// A short page is the last page.
		if len(entries.List) < pageSize {
			return nil, nil
		}
	}

	n.logger.Warnw("msg", "catalog page cap reached without a match",
		"broker_id", brokerID,
		"article_no", articleNo,
		"page_cap", n.pageCap)
	return nil, nil
}

// fetchCatalogPage fetches one feed page. A nil page with a nil error marks a
// non-200 response the caller should skip.
func (n *NaverClient) fetchCatalogPage(ctx context.Context, brokerID string, page int) (*catalogPage, int, error) {
	params := url.Values{}
	params.Set("rltrMbrId", brokerID)
	params.Set("tradTpCd", "")
	params.Set("atclRletTpCd", "")
	params.Set("tradeTypeChange", "false")
	params.Set("page", strconv.Itoa(page))

	endpoint := fmt.Sprintf("%s/agency/info/list?%s", n.agencyBase, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build catalog request: %w", err)
	}

	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.8")
	req.Header.Set("User-Agent", browserUserAgent)
	if n.cookieHeader != "" {
		req.Header.Set("Cookie", n.cookieHeader)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.logger.Warnw("msg", "catalog page returned non-200",
			"broker_id", brokerID,
			"page", page,
			"status", resp.StatusCode)
		return nil, 0, nil
	}

	var entries catalogPage
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, 0, fmt.Errorf("failed to decode catalog page %d: %w", page, err)
	}

	pageSize := entries.PageSize
	if pageSize <= 0 {
		pageSize = catalogPageSize
	}
	return &entries, pageSize, nil
}
