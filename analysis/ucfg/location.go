// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ucfg

import (
	"errors"

	"github.com/awslabs/ucfg-tools/analysis/lang"
)

// ErrMissingLocation reports an instruction-bearing node without a source
// range. This is the one input defect the compiler does not degrade on.
var ErrMissingLocation = errors.New("node has no source location")

// Location is the wire form of a source position: 1-based lines, 0-based
// columns, inclusive end column.
type Location struct {
	FileID    string `json:"file_id"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// TranslateRange converts a frontend range (0-based lines and columns,
// exclusive end column) into the wire Location. A nil range fails with
// ErrMissingLocation; a location is never fabricated.
func TranslateRange(fileID string, r *lang.Range) (Location, error) {
	if r == nil {
		return Location{}, ErrMissingLocation
	}
	return Location{
		FileID:    fileID,
		StartLine: r.StartLine + 1,
		StartCol:  r.StartCol,
		EndLine:   r.EndLine + 1,
		EndCol:    r.EndCol - 1,
	}, nil
}
