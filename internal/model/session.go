package model

import "time"

// DeviceSignals are the client-reported characteristics a fingerprint is
// derived from. The raw signals are never stored, only the fingerprint hash.
type DeviceSignals struct {
	UserAgent         string `json:"user_agent"`
	Language          string `json:"language"`
	Platform          string `json:"platform"`
	ScreenWidth       int    `json:"screen_width"`
	ScreenHeight      int    `json:"screen_height"`
	ColorDepth        int    `json:"color_depth"`
	TimezoneOffset    int    `json:"timezone_offset"`
	CanvasHash        string `json:"canvas_hash"`
	HasLocalStorage   bool   `json:"has_local_storage"`
	HasSessionStorage bool   `json:"has_session_storage"`
	GPURenderer       string `json:"gpu_renderer"`
}

// SessionRecord is the guard's state for one user. Usable only while IsValid
// is true and the idle time since LastActivity is inside the session timeout.
type SessionRecord struct {
	LastActivity time.Time `json:"last_activity"`
	Fingerprint  string    `json:"fingerprint"`
	CreatedAt    time.Time `json:"created_at"`
	IsValid      bool      `json:"is_valid"`
}
