// Package ollama provides a local embedding implementation of ai.Embedder
// backed by an Ollama server. It is used as the fallback model when the
// remote embedding provider is unconfigured or unavailable.
package ollama
