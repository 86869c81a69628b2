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

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Content must not be empty (the analysis service rejects empty bodies)
//   - FileName must not be empty (required lineage metadata)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if len(doc.Content) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	if doc.FileName() == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFileName)
	}

	return nil
}

// ValidateAnalysisResult validates an AnalysisResult according to domain rules.
//
// Validation rules:
//   - Must reference exactly one source Document
//
// NOT validated:
//   - Markdown (an empty analysis output is unusual but legal; the splitter
//     handles arbitrary text)
func ValidateAnalysisResult(result *AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("%w: result is nil", ErrInvalidAnalysisResult)
	}

	if len(result.SourceIds) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidAnalysisResult, ErrMissingSource)
	}

	return nil
}

// ValidateFragment validates a Fragment according to domain rules.
//
// Validation rules:
//   - Index must be 1-based
//   - PageNumber must be 1-based
//   - Must reference a source AnalysisResult
//
// NOT validated:
//   - Content (fragments emptied by figure stripping are still emitted)
func ValidateFragment(fragment *Fragment) error {
	if fragment == nil {
		return fmt.Errorf("%w: fragment is nil", ErrInvalidFragment)
	}

	if fragment.Index < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidFragment, ErrInvalidIndex)
	}

	if fragment.PageNumber < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidFragment, ErrInvalidPageNumber)
	}

	if len(fragment.SourceIds) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidFragment, ErrMissingSource)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Index must be 1-based
//   - Vector must not be empty (chunks exist only after embedding)
//   - Must reference a source Fragment
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Index < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrInvalidIndex)
	}

	if len(chunk.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyVector)
	}

	if len(chunk.SourceIds) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrMissingSource)
	}

	return nil
}
