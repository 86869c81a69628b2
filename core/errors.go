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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidAnalysisResult indicates an AnalysisResult failed validation.
	ErrInvalidAnalysisResult = errors.New("invalid analysis result")

	// ErrInvalidFragment indicates a Fragment failed validation.
	ErrInvalidFragment = errors.New("invalid fragment")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyContent indicates the content payload is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyFileName indicates the source file name is empty.
	ErrEmptyFileName = errors.New("file name cannot be empty")

	// ErrInvalidIndex indicates a sibling index is not 1-based.
	ErrInvalidIndex = errors.New("index must be >= 1")

	// ErrInvalidPageNumber indicates a page number is not 1-based.
	ErrInvalidPageNumber = errors.New("page number must be >= 1")

	// ErrMissingSource indicates a derived record has no lineage reference.
	ErrMissingSource = errors.New("derived record requires a source reference")

	// ErrEmptyVector indicates a chunk has no embedding vector.
	ErrEmptyVector = errors.New("embedding vector cannot be empty")
)
