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


// Package docintel implements ai.DocumentAnalyzer against an Azure Document
// Intelligence style layout/OCR REST API.
//
// The service runs analysis as an asynchronous job: a POST to the model's
// :analyze endpoint returns 202 with an Operation-Location header, and the
// client polls that location until the job succeeds or fails. Analyzer hides
// the polling behind a single blocking AnalyzeDocument call; callers bound
// the wait with a context deadline.
//
// Requests always ask for markdown output and high-resolution OCR, which is
// what the downstream markdown splitter expects: the returned text may embed
// <figure>...</figure> blocks and <!-- PageBreak --> markers.
package docintel
