package data

import (
	"context"
	"time"

	"github.com/small-creator/naverland-ho-tele/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// ExtractionLog is the GORM model for the extraction_logs table.
type ExtractionLog struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	ChatID      int64     `gorm:"column:chat_id;not null;index"`
	ArticleNo   string    `gorm:"column:article_no;type:varchar(32);not null;index"`
	ComplexName string    `gorm:"column:complex_name;type:varchar(255)"`
	Building    string    `gorm:"column:building;type:varchar(32)"`
	Unit        string    `gorm:"column:unit;type:varchar(32)"`
	Price       string    `gorm:"column:price;type:varchar(128)"`
	Success     bool      `gorm:"column:success;not null"`
	ErrorKind   string    `gorm:"column:error_kind;type:varchar(32)"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM.
func (ExtractionLog) TableName() string {
	return "extraction_logs"
}

// HistoryRepo implements biz.HistoryRecorder with an async channel writer so
// recording never blocks the extraction pipeline. With a nil db every record
// is dropped silently (history disabled).
type HistoryRepo struct {
	db      *gorm.DB
	logChan chan *ExtractionLog
	logger  *log.Helper
}

// NewHistoryRepo creates the extraction-history recorder.
func NewHistoryRepo(db *gorm.DB, logger log.Logger) *HistoryRepo {
	h := &HistoryRepo{
		db:      db,
		logChan: make(chan *ExtractionLog, 256),
		logger:  log.NewHelper(logger),
	}
	if db != nil {
		go h.start()
	}
	return h
}

// start drains the channel into the database.
func (h *HistoryRepo) start() {
	for entry := range h.logChan {
		if err := h.db.WithContext(context.Background()).Create(entry).Error; err != nil {
			h.logger.Errorw("msg", "failed to write extraction log",
				"chat_id", entry.ChatID,
				"article_no", entry.ArticleNo,
				"error", err)
		}
	}
}

// Record queues one completed extraction for persistence. Non-blocking: a full
// queue drops the entry with a warning.
func (h *HistoryRepo) Record(chatID int64, result *biz.ExtractionResult) {
	if h.db == nil || result == nil {
		return
	}

	entry := &ExtractionLog{
		ChatID:      chatID,
		ArticleNo:   result.ArticleNo,
		ComplexName: result.ComplexName,
		Building:    result.Building,
		Unit:        result.Unit,
		Price:       result.Price,
		Success:     result.Success,
		ErrorKind:   string(result.ErrorKind),
	}

	select {
	case h.logChan <- entry:
	default:
		h.logger.Warnw("msg", "extraction log queue full, dropping entry",
			"chat_id", chatID,
			"article_no", result.ArticleNo)
	}
}
