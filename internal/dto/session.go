package dto

import "weld-oee/backend/internal/model"

// WorkerSession identity of the worker issuing a tracking command.
// It comes from the access token online and from the batch owner offline.
type WorkerSession struct {
	UserID    uint
	WorkerID  uint
	ShiftID   uint
	Origin    string // model.OriginOnline | model.OriginOffline
	ClientIP  string
	UserAgent string
}

// Offline copy of the session used while replaying a sync batch
func (s WorkerSession) Offline() WorkerSession {
	s.Origin = model.OriginOffline
	return s
}

// IsOffline reports whether the command is replayed from a sync batch
func (s WorkerSession) IsOffline() bool {
	return s.Origin == model.OriginOffline
}
