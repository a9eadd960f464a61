package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
)

// Fingerprint reduces the client-reported device signals to a fixed-length
// opaque token. The raw signals are never persisted, only this hash, so a
// stored fingerprint cannot be reversed into tracking data. Any change in a
// signal yields a different token, which Validate treats as evidence the
// session moved to another device.
func Fingerprint(signals model.DeviceSignals) string {
	composite := strings.Join([]string{
		signals.UserAgent,
		signals.Language,
		signals.Platform,
		fmt.Sprintf("%dx%dx%d", signals.ScreenWidth, signals.ScreenHeight, signals.ColorDepth),
		fmt.Sprintf("tz:%d", signals.TimezoneOffset),
		signals.CanvasHash,
		fmt.Sprintf("ls:%t,ss:%t", signals.HasLocalStorage, signals.HasSessionStorage),
		signals.GPURenderer,
	}, "|")

	sum := sha256.Sum256([]byte(composite))
	return hex.EncodeToString(sum[:])
}
