// Copyright 2025 The Docmill Authors
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


// Package search provides semantic search over ingested document chunks.
//
// The Searcher type embeds the query, ranks stored chunks by vector
// similarity, and boosts chunks that contain every significant query word
// verbatim. Results carry the matching chunk with its page number and
// source file name, so callers can cite where in a document a hit came from.
package search
