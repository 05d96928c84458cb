package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/model"
	"weld-oee/backend/internal/repository"
)

// Audit actions
const (
	ActionShiftOpen      = "SHIFT_OPEN"
	ActionShiftAutoClose = "SHIFT_AUTO_CLOSE"
	ActionShiftClose     = "SHIFT_CLOSE"
	ActionWorkItemStart  = "WORK_ITEM_START"
	ActionWorkItemFinish = "WORK_ITEM_FINISH"
	ActionStoppageStart  = "STOPPAGE_START"
	ActionStoppageFinish = "STOPPAGE_FINISH"
	ActionDefectRecord   = "DEFECT_RECORD"
	ActionWorkerLogin    = "WORKER_LOGIN"
	ActionComponentAdd   = "COMPONENT_CREATE"

	offlineSuffix = "_OFFLINE"
)

// AuditRecord one state transition to be logged
type AuditRecord struct {
	ActorID   *uint
	Action    string
	Table     string
	RecordID  uint
	Before    interface{}
	After     interface{}
	Origin    string
	ClientIP  string
	UserAgent string
}

// AuditSink appends audit entries. Append never fails the caller: a
// write error is logged and dropped.
type AuditSink interface {
	Append(ctx context.Context, rec AuditRecord)
}

type auditSink struct {
	repo   repository.AuditRepository
	logger *zap.Logger
}

// NewAuditSink creates the database-backed AuditSink
func NewAuditSink(repo repository.AuditRepository, logger *zap.Logger) AuditSink {
	return &auditSink{repo: repo, logger: logger}
}

func (a *auditSink) Append(ctx context.Context, rec AuditRecord) {
	entry := &model.AuditEntry{
		ActorID:       rec.ActorID,
		Action:        rec.Action,
		AffectedTable: rec.Table,
		RecordID:      strconv.FormatUint(uint64(rec.RecordID), 10),
		BeforeState:   a.snapshot(rec.Before),
		AfterState:    a.snapshot(rec.After),
		Origin:        rec.Origin,
		ClientIP:      rec.ClientIP,
		UserAgent:     rec.UserAgent,
		CreatedAt:     normalize(time.Now()),
	}
	if entry.Origin == "" {
		entry.Origin = model.OriginOnline
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		a.logger.Warn("audit append failed",
			zap.String("action", rec.Action),
			zap.String("table", rec.Table),
			zap.Uint("record_id", rec.RecordID),
			zap.Error(err),
		)
	}
}

func (a *auditSink) snapshot(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		a.logger.Warn("audit snapshot encode failed", zap.Error(err))
		return ""
	}
	return string(b)
}

// sessionAudit builds a record for a command issued by a worker session.
// Replayed offline commands get the _OFFLINE action variant.
func sessionAudit(sess dto.WorkerSession, action, table string, id uint, before, after interface{}) AuditRecord {
	origin := sess.Origin
	if origin == "" {
		origin = model.OriginOnline
	}
	if sess.IsOffline() {
		action += offlineSuffix
	}
	var actor *uint
	if sess.UserID != 0 {
		uid := sess.UserID
		actor = &uid
	}
	return AuditRecord{
		ActorID:   actor,
		Action:    action,
		Table:     table,
		RecordID:  id,
		Before:    before,
		After:     after,
		Origin:    origin,
		ClientIP:  sess.ClientIP,
		UserAgent: sess.UserAgent,
	}
}
