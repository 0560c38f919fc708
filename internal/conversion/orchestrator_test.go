package conversion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bmerrors "bimigrate/cli/internal/errors"
)

// fakeClient scripts per-tick poll responses and records batch requests.
type fakeClient struct {
	mu           sync.Mutex
	startErr     error
	startCalls   int
	pollScript   [][]Converted
	pollErrs     []error
	pollCalls    int
	pollBlock    chan struct{} // when set, FetchConverted blocks until closed
	batchCalls   [][]string
	batchResults []Converted
	batchErr     error
}

func (f *fakeClient) StartConversion(ctx context.Context, scopeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	return f.startErr
}

func (f *fakeClient) FetchConverted(ctx context.Context, scopeID string) ([]Converted, error) {
	f.mu.Lock()
	i := f.pollCalls
	f.pollCalls++
	block := f.pollBlock
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if i < len(f.pollErrs) && f.pollErrs[i] != nil {
		return nil, f.pollErrs[i]
	}
	if i < len(f.pollScript) {
		return f.pollScript[i], nil
	}
	return nil, nil
}

func (f *fakeClient) ConvertBatch(ctx context.Context, scopeID string, ids []string) ([]Converted, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls = append(f.batchCalls, ids)
	return f.batchResults, f.batchErr
}

func conv(id string) Converted {
	return Converted{SourceID: id, SourceExpression: "src-" + id, TargetExpression: "dax-" + id}
}

func TestStartJobTransitionsToPolling(t *testing.T) {
	c := &fakeClient{}
	o := NewOrchestrator(c, time.Millisecond)

	require.NoError(t, o.StartJob(context.Background(), "wb-1"))
	assert.Equal(t, StatePolling, o.State())
	assert.Equal(t, 1, c.startCalls)
}

func TestStartJobFailureReturnsToIdle(t *testing.T) {
	c := &fakeClient{startErr: errors.New("boom")}
	o := NewOrchestrator(c, time.Millisecond)

	err := o.StartJob(context.Background(), "wb-1")
	require.Error(t, err)
	assert.True(t, bmerrors.HasKind(err, bmerrors.KickoffFailed))
	assert.Equal(t, StateIdle, o.State())
}

func TestPollMergesIncrementally(t *testing.T) {
	// Tick sequence: nothing, two items, the same two again. The cache must
	// end up with exactly two entries.
	c := &fakeClient{pollScript: [][]Converted{
		nil,
		{conv("a"), conv("b")},
		{conv("a"), conv("b")},
	}}
	o := NewOrchestrator(c, time.Millisecond)

	snap, err := o.PollOnce(context.Background(), "wb-1")
	require.NoError(t, err)
	assert.Empty(t, snap)

	snap, err = o.PollOnce(context.Background(), "wb-1")
	require.NoError(t, err)
	assert.Len(t, snap, 2)

	snap, err = o.PollOnce(context.Background(), "wb-1")
	require.NoError(t, err)
	assert.Len(t, snap, 2, "re-polled items must not duplicate")
	assert.Equal(t, "a", snap[0].SourceID)
	assert.Equal(t, "b", snap[1].SourceID)
}

func TestPollTickFailureKeepsCache(t *testing.T) {
	c := &fakeClient{
		pollScript: [][]Converted{{conv("a")}, nil},
		pollErrs:   []error{nil, errors.New("timeout")},
	}
	o := NewOrchestrator(c, time.Millisecond)

	_, err := o.PollOnce(context.Background(), "wb-1")
	require.NoError(t, err)

	snap, err := o.PollOnce(context.Background(), "wb-1")
	require.Error(t, err)
	assert.True(t, bmerrors.HasKind(err, bmerrors.PollTickFailed))
	assert.Len(t, snap, 1, "failed tick must not drop cached items")
}

func TestOverlappingTickIsSkipped(t *testing.T) {
	block := make(chan struct{})
	c := &fakeClient{
		pollBlock:  block,
		pollScript: [][]Converted{{conv("a")}},
	}
	o := NewOrchestrator(c, time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = o.PollOnce(context.Background(), "wb-1")
	}()

	// Wait for the first tick to be in flight, then issue a second tick. It
	// must return without touching the client.
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.pollCalls == 1
	}, time.Second, time.Millisecond)

	snap, err := o.PollOnce(context.Background(), "wb-1")
	require.NoError(t, err)
	assert.Empty(t, snap)
	c.mu.Lock()
	assert.Equal(t, 1, c.pollCalls, "overlapping tick must not issue a request")
	c.mu.Unlock()

	close(block)
	<-done
}

func TestRunSettlesOnContextCancel(t *testing.T) {
	c := &fakeClient{pollScript: [][]Converted{{conv("a")}}}
	o := NewOrchestrator(c, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	snap, err := o.Run(ctx, "wb-1", 0, nil)
	require.NoError(t, err)
	assert.Len(t, snap, 1)
	assert.Equal(t, StateSettled, o.State())
}

func TestRunMaxTicksAndOnMerge(t *testing.T) {
	c := &fakeClient{pollScript: [][]Converted{
		nil,
		{conv("a"), conv("b")},
		{conv("a"), conv("b"), conv("c")},
	}}
	o := NewOrchestrator(c, time.Millisecond)

	var merged []Converted
	snap, err := o.Run(context.Background(), "wb-1", 3, func(added []Converted) {
		merged = append(merged, added...)
	})
	require.NoError(t, err)
	assert.Len(t, snap, 3)
	require.Len(t, merged, 3, "onMerge must see each item exactly once")
	assert.Equal(t, "a", merged[0].SourceID)
	assert.Equal(t, "c", merged[2].SourceID)
	assert.Equal(t, StateSettled, o.State())
}

func TestConvertNowFiltersCachedIDs(t *testing.T) {
	c := &fakeClient{batchResults: []Converted{conv("b")}}
	o := NewOrchestrator(c, time.Millisecond)

	o.Cache().Rescope("wb-1")
	o.Cache().Merge([]Converted{conv("a")})

	snap, err := o.ConvertNow(context.Background(), "wb-1", []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, snap, 2)
	require.Len(t, c.batchCalls, 1)
	assert.Equal(t, []string{"b"}, c.batchCalls[0], "cached ids must be filtered out")
}

func TestConvertNowFullyCachedSkipsRequest(t *testing.T) {
	c := &fakeClient{}
	o := NewOrchestrator(c, time.Millisecond)

	o.Cache().Rescope("wb-1")
	o.Cache().Merge([]Converted{conv("a"), conv("b")})

	snap, err := o.ConvertNow(context.Background(), "wb-1", []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, snap, 2)
	assert.Empty(t, c.batchCalls, "fully cached selection must not hit the backend")
}

func TestScopeChangeClearsCacheAndResetsState(t *testing.T) {
	c := &fakeClient{pollScript: [][]Converted{{conv("a")}}}
	o := NewOrchestrator(c, time.Millisecond)

	_, err := o.PollOnce(context.Background(), "wb-1")
	require.NoError(t, err)
	require.Equal(t, 1, o.Cache().Len())

	require.NoError(t, o.StartJob(context.Background(), "wb-2"))
	assert.Zero(t, o.Cache().Len(), "scope change must flush the cache")
	assert.Equal(t, "wb-2", o.Cache().Scope())
}
