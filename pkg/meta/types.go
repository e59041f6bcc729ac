// ABOUTME: Metadata data model for the idea store
// ABOUTME: Singleton counter record backing idea ID allocation

package meta

// Meta is the singleton metadata record persisted as meta.json.
type Meta struct {
	// NextID is the next idea ID to hand out. It is strictly greater than
	// every idea ID ever allocated and is never reset by deletions.
	NextID int `json:"nextId"`

	// TotalIdeas is a cached count of idea documents scanned on the last
	// refresh. It is informational and may lag behind the collection.
	TotalIdeas int `json:"totalIdeas"`
}
