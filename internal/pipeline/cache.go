package pipeline

import (
	"github.com/SaganGromov/webcam-yolo-vigia/internal/vision"
)

// Cache holds the most recent detector batch so frames between detector
// invocations still render and act on it (no bounding-box flicker).
// Entries never age out on their own; staleness is bounded by the next
// detector run.
type Cache struct {
	batch []vision.Detection
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Replace swaps the whole batch. There is no partial merge: an empty
// batch empties the cache.
func (c *Cache) Replace(batch []vision.Detection) {
	c.batch = batch
}

// Detections returns the cached batch in detector order.
func (c *Cache) Detections() []vision.Detection {
	return c.batch
}

// IsEmpty reports whether the cache holds no detections.
func (c *Cache) IsEmpty() bool {
	return len(c.batch) == 0
}

// ContainsLabel reports whether any cached detection has the label.
func (c *Cache) ContainsLabel(label string) bool {
	for _, d := range c.batch {
		if d.Label == label {
			return true
		}
	}
	return false
}
