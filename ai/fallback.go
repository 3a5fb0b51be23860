// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// LocalLoader constructs the local fallback embedder. It is invoked at most
// once, on the first call that actually needs the local model, never at
// construction time. Loading a local model is expensive and many deployments
// never touch it.
type LocalLoader func() (Embedder, error)

// FallbackEmbedder embeds text via a remote provider when one is configured
// and falls back to a lazily loaded local model when the remote provider is
// missing or fails. Both sources exhausted yields ErrEmbeddingUnavailable.
type FallbackEmbedder struct {
	remote Embedder // nil when no remote provider is configured
	loader LocalLoader

	once     sync.Once
	local    Embedder
	localErr error

	logger *slog.Logger
}

// NewFallbackEmbedder creates a FallbackEmbedder. remote may be nil, meaning
// every call goes straight to the local model. loader may be nil, meaning no
// local fallback exists.
func NewFallbackEmbedder(remote Embedder, loader LocalLoader) *FallbackEmbedder {
	return &FallbackEmbedder{
		remote: remote,
		loader: loader,
		logger: slog.Default().With("component", "fallback_embedder"),
	}
}

// EmbedText generates an embedding for the given text, preferring the remote
// provider. A remote result that is an empty vector counts as a failure and
// triggers the fallback.
func (f *FallbackEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if f.remote != nil {
		vec, err := f.remote.EmbedText(ctx, text)
		if err == nil && len(vec) > 0 {
			return vec, nil
		}
		if err != nil {
			f.logger.Warn("remote embedding failed, falling back to local model", "error", err)
		} else {
			f.logger.Warn("remote embedding returned empty vector, falling back to local model")
		}
	}

	local, err := f.localEmbedder()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}

	vec, err := local.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: local embedding failed: %w", ErrEmbeddingUnavailable, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: local embedding returned empty vector", ErrEmbeddingUnavailable)
	}
	return vec, nil
}

// localEmbedder loads the local model on first use. The load outcome, success
// or failure, is cached; a model that failed to load is not retried.
func (f *FallbackEmbedder) localEmbedder() (Embedder, error) {
	if f.loader == nil {
		return nil, fmt.Errorf("no local embedding model configured")
	}
	f.once.Do(func() {
		f.logger.Info("loading local embedding model")
		f.local, f.localErr = f.loader()
		if f.localErr != nil {
			f.logger.Error("local embedding model failed to load", "error", f.localErr)
		}
	})
	if f.localErr != nil {
		return nil, fmt.Errorf("local embedding model unavailable: %w", f.localErr)
	}
	return f.local, nil
}
