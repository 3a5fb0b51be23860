package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcEmbedder struct {
	fn    func(ctx context.Context, text string) ([]float32, error)
	calls int
}

func (f *funcEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return f.fn(ctx, text)
}

func TestFallbackEmbedderRemoteSuccess(t *testing.T) {
	remote := &funcEmbedder{fn: func(ctx context.Context, text string) ([]float32, error) {
		return []float32{0.1, 0.2, 0.3}, nil
	}}
	loaderCalled := false
	fb := NewFallbackEmbedder(remote, func() (Embedder, error) {
		loaderCalled = true
		return nil, errors.New("should not be loaded")
	})

	vec, err := fb.EmbedText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.False(t, loaderCalled, "local loader must not run when remote succeeds")
}

func TestFallbackEmbedderRemoteFailureUsesLocal(t *testing.T) {
	remote := &funcEmbedder{fn: func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("rate limited")
	}}
	local := &funcEmbedder{fn: func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 2}, nil
	}}
	fb := NewFallbackEmbedder(remote, func() (Embedder, error) {
		return local, nil
	})

	vec, err := fb.EmbedText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, vec)
	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, 1, local.calls)
}

func TestFallbackEmbedderEmptyRemoteVectorIsFailure(t *testing.T) {
	remote := &funcEmbedder{fn: func(ctx context.Context, text string) ([]float32, error) {
		return []float32{}, nil
	}}
	local := &funcEmbedder{fn: func(ctx context.Context, text string) ([]float32, error) {
		return []float32{0.5}, nil
	}}
	fb := NewFallbackEmbedder(remote, func() (Embedder, error) {
		return local, nil
	})

	vec, err := fb.EmbedText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, vec)
}

func TestFallbackEmbedderEmptyLocalVectorIsFailure(t *testing.T) {
	local := &funcEmbedder{fn: func(ctx context.Context, text string) ([]float32, error) {
		return []float32{}, nil
	}}
	fb := NewFallbackEmbedder(nil, func() (Embedder, error) {
		return local, nil
	})

	_, err := fb.EmbedText(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	assert.Equal(t, 1, local.calls)
}

func TestFallbackEmbedderNoRemoteGoesDirectlyLocal(t *testing.T) {
	local := &funcEmbedder{fn: func(ctx context.Context, text string) ([]float32, error) {
		return []float32{9}, nil
	}}
	fb := NewFallbackEmbedder(nil, func() (Embedder, error) {
		return local, nil
	})

	vec, err := fb.EmbedText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{9}, vec)
}

func TestFallbackEmbedderBothUnavailable(t *testing.T) {
	fb := NewFallbackEmbedder(nil, nil)

	_, err := fb.EmbedText(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
}

func TestFallbackEmbedderLoaderFailureIsCached(t *testing.T) {
	loaderCalls := 0
	fb := NewFallbackEmbedder(nil, func() (Embedder, error) {
		loaderCalls++
		return nil, errors.New("model download failed")
	})

	for i := 0; i < 3; i++ {
		_, err := fb.EmbedText(context.Background(), "hello")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	}
	assert.Equal(t, 1, loaderCalls, "failed load must not be retried")
}

func TestFallbackEmbedderLocalLoadedOnce(t *testing.T) {
	loaderCalls := 0
	local := &funcEmbedder{fn: func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1}, nil
	}}
	fb := NewFallbackEmbedder(nil, func() (Embedder, error) {
		loaderCalls++
		return local, nil
	})

	for i := 0; i < 5; i++ {
		_, err := fb.EmbedText(context.Background(), "hello")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, loaderCalls)
	assert.Equal(t, 5, local.calls)
}
