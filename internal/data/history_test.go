package data

import (
	"os"
	"testing"

	"github.com/small-creator/naverland-ho-tele/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
)

func TestHistoryRepo_NilDBIsNoop(t *testing.T) {
	h := NewHistoryRepo(nil, log.NewStdLogger(os.Stdout))

	// Must not panic or block with history disabled.
	h.Record(777, &biz.ExtractionResult{ArticleNo: "2412345678", Success: true})
	h.Record(777, nil)
}

func TestExtractionLogTableName(t *testing.T) {
	assert.Equal(t, "extraction_logs", ExtractionLog{}.TableName())
}
