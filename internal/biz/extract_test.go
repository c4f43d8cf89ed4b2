package biz

import (
	"context"
	"errors"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeListingSource scripts the upstream for pipeline tests.
type fakeListingSource struct {
	brokerID   string
	resolveErr error
	record     *ListingRecord
	searchErr  error

	gotBrokerID string
}

func (f *fakeListingSource) ResolveBroker(_ context.Context, _ string) (string, error) {
	return f.brokerID, f.resolveErr
}

func (f *fakeListingSource) SearchCatalog(_ context.Context, brokerID, _ string) (*ListingRecord, error) {
	f.gotBrokerID = brokerID
	return f.record, f.searchErr
}

func newTestExtractUsecase(src *fakeListingSource) *ExtractUsecase {
	return NewExtractUsecase(src, log.DefaultLogger)
}

func TestExtract_BrokerNotFound(t *testing.T) {
	uc := newTestExtractUsecase(&fakeListingSource{brokerID: ""})

	result := uc.Extract(context.Background(), "8101290")

	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindBrokerNotFound, result.ErrorKind)
}

func TestExtract_ListingNotFound(t *testing.T) {
	src := &fakeListingSource{brokerID: "rltr42", record: nil}
	uc := newTestExtractUsecase(src)

	result := uc.Extract(context.Background(), "8101290")

	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindListingNotFound, result.ErrorKind)
	assert.Equal(t, "rltr42", src.gotBrokerID)
}

func TestExtract_EmptyDetailAddressIsListingNotFound(t *testing.T) {
	src := &fakeListingSource{
		brokerID: "rltr42",
		record:   &ListingRecord{ArticleNo: "8101290", ComplexName: "래미안"},
	}
	uc := newTestExtractUsecase(src)

	result := uc.Extract(context.Background(), "8101290")

	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindListingNotFound, result.ErrorKind)
}

func TestExtract_Success(t *testing.T) {
	src := &fakeListingSource{
		brokerID: "rltr42",
		record: &ListingRecord{
			ArticleNo:     "8101290",
			ComplexName:   "래미안아파트",
			RawPrice:      "15000",
			TradeType:     TradeTypeJeonse,
			DetailAddress: "101동 202호, 서울시 강남구",
		},
	}
	uc := newTestExtractUsecase(src)

	result := uc.Extract(context.Background(), "8101290")

	require.True(t, result.Success)
	assert.Equal(t, ErrorKindNone, result.ErrorKind)
	assert.Equal(t, "래미안아파트", result.ComplexName)
	assert.Equal(t, "1.5억", result.Price)
	assert.Equal(t, "101동", result.Building)
	assert.Equal(t, "202호", result.Unit)
	assert.Equal(t, "101동 202호, 서울시 강남구", result.FullAddress)
}

func TestExtract_SuccessWithoutTokens(t *testing.T) {
	// A record whose address carries no 동/호 tokens still succeeds; the
	// tokens are simply absent.
	src := &fakeListingSource{
		brokerID: "rltr42",
		record: &ListingRecord{
			ArticleNo:     "8101290",
			RawPrice:      "5000/50",
			TradeType:     TradeTypeMonthly,
			DetailAddress: "서울시 강남구 역삼로 123",
		},
	}
	uc := newTestExtractUsecase(src)

	result := uc.Extract(context.Background(), "8101290")

	require.True(t, result.Success)
	assert.Empty(t, result.Building)
	assert.Empty(t, result.Unit)
	assert.Equal(t, "보증금 5,000만원 / 월세 50만원", result.Price)
}

func TestExtract_ResolveErrorIsInternal(t *testing.T) {
	uc := newTestExtractUsecase(&fakeListingSource{resolveErr: errors.New("connection refused")})

	result := uc.Extract(context.Background(), "8101290")

	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindInternal, result.ErrorKind)
	assert.Contains(t, result.ErrorDetail, "connection refused")
}

func TestExtract_SearchErrorIsInternal(t *testing.T) {
	src := &fakeListingSource{brokerID: "rltr42", searchErr: errors.New("unexpected EOF")}
	uc := newTestExtractUsecase(src)

	result := uc.Extract(context.Background(), "8101290")

	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindInternal, result.ErrorKind)
	assert.Contains(t, result.ErrorDetail, "unexpected EOF")
}
