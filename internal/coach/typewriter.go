package coach

import (
	"context"
	"time"
)

// DefaultTypeInterval matches the original reveal cadence of roughly one
// animation frame per chunk.
const DefaultTypeInterval = 16 * time.Millisecond

// typeChunk is the number of runes revealed per step.
const typeChunk = 2

// Typewriter streams progressively longer prefixes of a reply, two runes
// at a time, for UI-side reveal. Purely presentational; nothing downstream
// depends on the pacing. The returned channel closes after the full text
// has been sent or the context is cancelled.
func Typewriter(ctx context.Context, text string, interval time.Duration) <-chan string {
	if interval <= 0 {
		interval = DefaultTypeInterval
	}
	out := make(chan string, 1)

	go func() {
		defer close(out)
		runes := []rune(text)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for i := typeChunk; ; i += typeChunk {
			if i > len(runes) {
				i = len(runes)
			}
			select {
			case <-ctx.Done():
				return
			case out <- string(runes[:i]):
			}
			if i == len(runes) {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}
