package service

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/qri-io/jsonschema"
	"go.uber.org/zap"

	"weld-oee/backend/config"
	"weld-oee/backend/internal/dto"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// ErrBatchTooLarge the whole batch is refused before any item runs
var ErrBatchTooLarge = fmt.Errorf("%w: sync batch too large", ErrInvalidInput)

// SyncService replays offline batches against the trackers
type SyncService interface {
	// Process applies items strictly in order. Each item is its own
	// transaction; a failed item is reported and the batch continues.
	Process(ctx context.Context, sess dto.WorkerSession, items []dto.SyncItem, now time.Time) (*dto.SyncResult, error)
}

type syncService struct {
	maxBatch  int
	workItems WorkItemService
	stoppages StoppageService
	schemas   map[string]*jsonschema.Schema
	logger    *zap.Logger
}

// NewSyncService creates a SyncService. It fails only if the embedded
// payload schemas do not compile.
func NewSyncService(
	cfg *config.TrackingConfig,
	workItems WorkItemService,
	stoppages StoppageService,
	logger *zap.Logger,
) (SyncService, error) {
	schemas, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	return &syncService{
		maxBatch:  cfg.MaxSyncBatch,
		workItems: workItems,
		stoppages: stoppages,
		schemas:   schemas,
		logger:    logger,
	}, nil
}

func loadSchemas() (map[string]*jsonschema.Schema, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read sync schemas: %w", err)
	}
	schemas := make(map[string]*jsonschema.Schema, len(entries))
	for _, e := range entries {
		raw, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(raw, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		schemas[strings.TrimSuffix(e.Name(), ".json")] = rs
	}
	return schemas, nil
}

func (s *syncService) Process(ctx context.Context, sess dto.WorkerSession, items []dto.SyncItem, now time.Time) (*dto.SyncResult, error) {
	if s.maxBatch > 0 && len(items) > s.maxBatch {
		return nil, fmt.Errorf("%w: %d items, limit %d", ErrBatchTooLarge, len(items), s.maxBatch)
	}

	offline := sess.Offline()
	result := &dto.SyncResult{Errors: []dto.SyncFailure{}}
	for _, item := range items {
		at := now
		if item.OccurredAt != nil {
			at = *item.OccurredAt
		}
		if err := s.apply(ctx, offline, item, at); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, dto.SyncFailure{ID: item.ID, Message: err.Error()})
			s.logger.Warn("offline item rejected",
				zap.String("item_id", item.ID),
				zap.String("type", item.Type),
				zap.Uint("worker_id", sess.WorkerID),
				zap.Error(err),
			)
			continue
		}
		result.Processed++
	}

	s.logger.Info("offline batch processed",
		zap.Uint("worker_id", sess.WorkerID),
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *syncService) apply(ctx context.Context, sess dto.WorkerSession, item dto.SyncItem, at time.Time) error {
	schema, ok := s.schemas[item.Type]
	if !ok {
		return fmt.Errorf("%w: unknown item type %q", ErrInvalidInput, item.Type)
	}
	if err := validate(ctx, schema, item.Data); err != nil {
		return err
	}

	switch item.Type {
	case dto.SyncStartWorkItem:
		var req dto.StartWorkItemRequest
		if err := json.Unmarshal(item.Data, &req); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		_, err := s.workItems.Start(ctx, sess, &req, at)
		return err
	case dto.SyncFinishWorkItem:
		var req dto.FinishWorkItemRequest
		if err := json.Unmarshal(item.Data, &req); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		_, err := s.workItems.Finish(ctx, sess, req.EventID, at)
		return err
	case dto.SyncStartStoppage:
		var req dto.StartStoppageRequest
		if err := json.Unmarshal(item.Data, &req); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		_, err := s.stoppages.Start(ctx, sess, &req, at)
		return err
	case dto.SyncFinishStoppage:
		var req dto.FinishStoppageRequest
		if err := json.Unmarshal(item.Data, &req); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		_, err := s.stoppages.Finish(ctx, sess, req.StoppageID, at)
		return err
	}
	return fmt.Errorf("%w: unknown item type %q", ErrInvalidInput, item.Type)
}

func validate(ctx context.Context, schema *jsonschema.Schema, data json.RawMessage) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", ErrInvalidInput)
	}
	keyErrs, err := schema.ValidateBytes(ctx, data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(keyErrs) > 0 {
		msgs := make([]string, 0, len(keyErrs))
		for _, ke := range keyErrs {
			msgs = append(msgs, fmt.Sprintf("%s: %s", ke.PropertyPath, ke.Message))
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
	}
	return nil
}
