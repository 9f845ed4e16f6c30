// Copyright 2025 Calyptra
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


// Package ai provides abstractions for the AI services used in Forage.
//
// This package defines interfaces for text embeddings and chat completion,
// allowing the ingestion pipeline and query orchestrator to depend on
// abstractions rather than concrete implementations.
//
// # Design
//
// The package is built around three interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Generator: Produces chat completions, optionally streamed
//   - AIProvider: Aggregates AI services for convenient initialization
//
// Two implementation sub-packages are provided:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// interface types to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder, mock.NewMockGenerator) return concrete types to
// enable behavior injection and call-count assertions.
//
// The package also hosts the prompt templates driving the query pipeline
// and small text utilities shared by the implementations: token estimation
// for context budgeting, JSON carving for fenced model output, and message
// pruning for long chat histories.
//
// # Usage
//
//	config := ai.NewConfig(ai.WithAPIURL("http://localhost:11434"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "4688 process creation")
//	answer, err := provider.Generator().Generate(ctx, msgs)
package ai
