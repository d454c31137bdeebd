package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(retention time.Duration) *Store {
	return NewStore(retention, zap.NewNop())
}

func testRecord(id string) Record {
	return Record{
		ID:             id,
		Status:         "processing",
		Prompt:         "remove background",
		SourceImageURL: "https://x/y.jpg",
		ModelType:      "kontext",
		CreatedAt:      time.Now(),
	}
}

func TestStore_PutGet(t *testing.T) {
	s := newTestStore(time.Minute)
	rec := testRecord("job-1")

	s.Put(rec)

	got, ok := s.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, rec, got)
	assert.Equal(t, 1, s.Len())
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(time.Minute)

	_, ok := s.Get("never-submitted")
	assert.False(t, ok)
}

func TestStore_UpdateStatusPreservesFields(t *testing.T) {
	s := newTestStore(time.Minute)
	rec := testRecord("job-1")
	s.Put(rec)

	updated, ok := s.UpdateStatus("job-1", "succeeded")
	require.True(t, ok)

	assert.Equal(t, "succeeded", updated.Status)
	assert.Equal(t, rec.ID, updated.ID)
	assert.Equal(t, rec.Prompt, updated.Prompt)
	assert.Equal(t, rec.SourceImageURL, updated.SourceImageURL)
	assert.Equal(t, rec.ModelType, updated.ModelType)
	assert.Equal(t, rec.CreatedAt, updated.CreatedAt)
}

func TestStore_UpdateStatusMissing(t *testing.T) {
	s := newTestStore(time.Minute)

	_, ok := s.UpdateStatus("nope", "succeeded")
	assert.False(t, ok)
}

func TestStore_ScheduleEvictionRemovesAfterRetention(t *testing.T) {
	s := newTestStore(20 * time.Millisecond)
	s.Put(testRecord("job-1"))

	require.True(t, s.ScheduleEviction("job-1"))

	// Still present inside the retention window.
	_, ok := s.Get("job-1")
	assert.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := s.Get("job-1")
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, s.Len())
}

func TestStore_ScheduleEvictionIdempotent(t *testing.T) {
	s := newTestStore(20 * time.Millisecond)
	s.Put(testRecord("job-1"))

	assert.True(t, s.ScheduleEviction("job-1"))
	assert.False(t, s.ScheduleEviction("job-1"))
}

func TestStore_ScheduleEvictionUnknownJob(t *testing.T) {
	s := newTestStore(time.Minute)

	assert.False(t, s.ScheduleEviction("ghost"))
}

func TestStore_EvictedJobIndistinguishableFromUnknown(t *testing.T) {
	s := newTestStore(10 * time.Millisecond)
	s.Put(testRecord("job-1"))
	s.ScheduleEviction("job-1")

	assert.Eventually(t, func() bool {
		_, ok := s.Get("job-1")
		return !ok
	}, time.Second, 5*time.Millisecond)

	_, okEvicted := s.Get("job-1")
	_, okUnknown := s.Get("job-2")
	assert.Equal(t, okUnknown, okEvicted)
}
