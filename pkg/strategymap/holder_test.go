package strategymap

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covertmark/covertmark/pkg/errors"
)

func writeMap(t *testing.T, path string, names ...string) {
	t.Helper()
	doc := "{"
	for i, name := range names {
		if i > 0 {
			doc += ","
		}
		doc += `"` + name + `": ` + strategyJSON(`["IP_SRC"]`, `[]`)
	}
	doc += "}"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
}

func TestHolderEmbedded(t *testing.T) {
	h, err := NewHolder("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSource, h.Current().Source())

	err = h.Watch(context.Background(), nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestHolderReloadSwapsRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	writeMap(t, path, "a")

	h, err := NewHolder(path)
	require.NoError(t, err)
	first := h.Current()
	assert.Equal(t, []string{"a"}, first.List())

	writeMap(t, path, "a", "b")
	r, err := h.Reload()
	require.NoError(t, err)
	assert.Same(t, r, h.Current())
	assert.Equal(t, []string{"a", "b"}, h.Current().List())
	assert.NotEqual(t, first.ID(), r.ID())

	// The old snapshot is untouched
	assert.Equal(t, []string{"a"}, first.List())
}

func TestHolderKeepsRegistryOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	writeMap(t, path, "a")

	h, err := NewHolder(path)
	require.NoError(t, err)
	before := h.Current()

	require.NoError(t, os.WriteFile(path, []byte(`{"a": `+strategyJSON(`["IP_BOGUS"]`, `[]`)+`}`), 0644))
	r, err := h.Reload()
	require.Error(t, err)
	assert.Nil(t, r)
	assert.True(t, errors.IsConfigError(err))
	assert.Same(t, before, h.Current())
}

func TestNewHolderFailsOnInvalidMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0644))

	_, err := NewHolder(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestHolderMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	writeMap(t, path, "a", "b")

	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	h, err := NewHolder(path, WithMetrics(m))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))
	_, err = h.Reload()
	require.Error(t, err)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.loadsTotal.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.loadsTotal.WithLabelValues(ResultFailure)))
	assert.Equal(t, 2.0, promtest.ToFloat64(m.strategies))
	assert.Equal(t, float64(h.Current().LoadedAt().Unix()), promtest.ToFloat64(m.lastSuccessTime))

	// Registering twice on the same registry fails
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeFailure()
		m.observeSuccess(&Registry{}, time.Now())
	})
}

func TestHolderConcurrentReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	writeMap(t, path, "a")

	h, err := NewHolder(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r := h.Current()
				names := r.List()
				assert.Equal(t, r.Len(), len(names))
			}
		}()
	}

	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			writeMap(t, path, "a", "b")
		} else {
			writeMap(t, path, "a")
		}
		_, err := h.Reload()
		require.NoError(t, err)
	}
	wg.Wait()
}

func TestHolderWatchReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	writeMap(t, path, "a")

	h, err := NewHolder(path, WithLoadOptions(WithNegativeFilterPolicy(PolicyIgnore)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- h.Watch(ctx, nil)
	}()

	updated := filepath.Join(t.TempDir(), "updated.json")
	writeMap(t, updated, "a", "b", "c")
	content, err := os.ReadFile(updated)
	require.NoError(t, err)

	// Rewrite until the watcher has started and picked the change up
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, content, 0644)
		return h.Current().Len() == 3
	}, 5*time.Second, 100*time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, h.Current().List())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestHolderWatchSurvivesRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	writeMap(t, path, "a")

	h, err := NewHolder(path)
	require.NoError(t, err)
	h.rewatchInterval = 50 * time.Millisecond

	var (
		mu   sync.Mutex
		errs []error
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- h.Watch(ctx, func(r *Registry, err error) {
			mu.Lock()
			defer mu.Unlock()
			// Partial writes can fail to parse; only watcher errors count here
			if errors.IsErrorCode(err, errors.ErrFileAccess) {
				errs = append(errs, err)
			}
		})
	}()

	require.Eventually(t, func() bool {
		writeMap(t, path, "a", "b")
		return h.Current().Len() == 2
	}, 5*time.Second, 100*time.Millisecond)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(errs) > 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, h.Current().List())

	require.Eventually(t, func() bool {
		writeMap(t, path, "a", "b", "c")
		return h.Current().Len() == 3
	}, 5*time.Second, 100*time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, h.Current().List())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
