// Package openai provides OpenAI-compatible implementations of the ai package
// interfaces: embeddings and chat completions via langchaingo, and audio
// transcription via the raw multipart endpoint.
//
// The same client works against the hosted OpenAI API and any local
// OpenAI-compatible server, selected by the configured base URL.
package openai
