package kvdb

const (
	// RequestsBucket maps refresh request ids to their progress.
	RequestsBucket = "requests"
	// SnapshotBucket keeps the last doctor list fetched from the feed.
	SnapshotBucket = "snapshot"
	// IndexedBucket holds one key per doctor id present in the search index.
	IndexedBucket = "indexed"
)

var buckets = []string{RequestsBucket, SnapshotBucket, IndexedBucket}

type DB interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	GetAllKeys(bucket string) ([]string, error)
	Close() error
}
