package dto

// ── Auth DTO ──

// WorkerLoginRequest shop-floor login with the worker's PIN
type WorkerLoginRequest struct {
	WorkerID uint   `json:"worker_id" binding:"required"`
	PIN      string `json:"pin"       binding:"required,min=4,max=12"`
}

// LoginRequest staff login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RequestMeta client details recorded in the audit log
type RequestMeta struct {
	ClientIP  string
	UserAgent string
}
