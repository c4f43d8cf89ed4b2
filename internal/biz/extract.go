package biz

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
)

// ErrorKind classifies why an extraction produced no unit information.
type ErrorKind string

const (
	// ErrorKindNone marks a successful extraction.
	ErrorKindNone ErrorKind = ""
	// ErrorKindBrokerNotFound means the article could not be resolved to a broker.
	ErrorKindBrokerNotFound ErrorKind = "broker_not_found"
	// ErrorKindListingNotFound means the broker's catalog held no usable match.
	ErrorKindListingNotFound ErrorKind = "listing_not_found"
	// ErrorKindInternal wraps an unexpected transport or decode failure.
	ErrorKindInternal ErrorKind = "internal"
)

// ListingRecord is the catalog entry matched during broker feed search.
// It is transient: produced by the search, consumed by the pipeline, never stored.
type ListingRecord struct {
	ArticleNo     string
	ComplexName   string
	RawPrice      string
	TradeType     string
	DetailAddress string
}

// ExtractionResult is the terminal artifact of one extraction request.
// Success is true iff a broker was resolved and a matching record with a
// non-empty detail address was found.
type ExtractionResult struct {
	ArticleNo   string
	ComplexName string
	Price       string
	Building    string
	Unit        string
	FullAddress string
	Success     bool
	ErrorKind   ErrorKind
	ErrorDetail string
}

// ListingSource resolves article ownership and searches a broker's public feed.
// Implementations return empty/nil (not an error) when the upstream simply has
// no answer; errors are reserved for transport and decode failures.
type ListingSource interface {
	// ResolveBroker returns the broker id owning the article, or "" if unknown.
	ResolveBroker(ctx context.Context, articleNo string) (string, error)

	// SearchCatalog pages through the broker's feed looking for the article.
	// Returns nil when the feed is exhausted without a match.
	SearchCatalog(ctx context.Context, brokerID, articleNo string) (*ListingRecord, error)
}

// HistoryRecorder persists completed extraction attempts for later review.
// Recording is best-effort and must never block or fail the pipeline.
type HistoryRecorder interface {
	Record(chatID int64, result *ExtractionResult)
}

// ExtractUsecase implements the extraction pipeline:
// broker resolution → catalog search → address/price parsing.
type ExtractUsecase struct {
	source ListingSource
	logger *log.Helper
}

// NewExtractUsecase creates the extraction pipeline use case.
func NewExtractUsecase(source ListingSource, logger log.Logger) *ExtractUsecase {
	return &ExtractUsecase{
		source: source,
		logger: log.NewHelper(logger),
	}
}

// Extract resolves an article number to its building/unit information.
// Failures are reported through the result's ErrorKind; Extract never
// propagates an error to its caller.
func (uc *ExtractUsecase) Extract(ctx context.Context, articleNo string) *ExtractionResult {
	result := &ExtractionResult{ArticleNo: articleNo}

	brokerID, err := uc.source.ResolveBroker(ctx, articleNo)
	if err != nil {
		uc.logger.Errorw("msg", "broker resolution failed", "article_no", articleNo, "error", err)
		result.ErrorKind = ErrorKindInternal
		result.ErrorDetail = err.Error()
		return result
	}
	if brokerID == "" {
		uc.logger.Warnw("msg", "no broker found for article", "article_no", articleNo)
		result.ErrorKind = ErrorKindBrokerNotFound
		return result
	}

	record, err := uc.source.SearchCatalog(ctx, brokerID, articleNo)
	if err != nil {
		uc.logger.Errorw("msg", "catalog search failed",
			"article_no", articleNo,
			"broker_id", brokerID,
			"error", err)
		result.ErrorKind = ErrorKindInternal
		result.ErrorDetail = err.Error()
		return result
	}
	if record == nil || record.DetailAddress == "" {
		uc.logger.Warnw("msg", "article not found in broker catalog",
			"article_no", articleNo,
			"broker_id", brokerID)
		result.ErrorKind = ErrorKindListingNotFound
		return result
	}

	building, unit := ParseUnitAddress(record.DetailAddress)

	result.ComplexName = record.ComplexName
	result.Price = FormatPrice(record.RawPrice, record.TradeType)
	result.Building = building
	result.Unit = unit
	result.FullAddress = record.DetailAddress
	result.Success = true

	uc.logger.Infow("msg", "extraction completed",
		"article_no", articleNo,
		"broker_id", brokerID,
		"building", building,
		"unit", unit)

	return result
}
