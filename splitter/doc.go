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


// Package splitter implements the markdown splitting stage of the ingestion
// pipeline: bounded-size, markdown-structure-aware splitting of an analysis
// result's text, figure-block stripping, and page-break tracking.
//
// Fragment invariants:
//
//   - fragment content length never exceeds the configured bound, except
//     where a single atomic markdown block inherently exceeds it (the
//     underlying splitter then falls back to a character-level split)
//   - sequence indices are 1-based and contiguous in production order
//   - page numbers are monotonically non-decreasing across the sequence
//   - fragments emptied by figure stripping are still emitted
//
// The splitting algorithm operates on arbitrary text and always terminates;
// malformed markdown is not an error condition.
package splitter
