// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//  http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package sofa

import (
	"encoding/json"
	"net/http"
	"testing"

	"gitlab.com/flimzy/testy"
)

func TestEncodeKey(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
		status   int
		err      string
	}{
		{
			name:     "string",
			input:    "foo",
			expected: `"foo"`,
		},
		{
			name:     "array",
			input:    []interface{}{"foo", 2},
			expected: `["foo",2]`,
		},
		{
			name:     "raw message passthrough",
			input:    json.RawMessage(`{"already":"encoded"}`),
			expected: `{"already":"encoded"}`,
		},
		{
			name:   "unmarshalable",
			input:  make(chan int),
			status: http.StatusBadRequest,
			err:    "json: unsupported type: chan int",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := encodeKey(test.input)
			if test.err != "" {
				if !testy.ErrorMatches(test.err, err) {
					t.Fatalf("Unexpected error: %v", err)
				}
				if status := HTTPStatus(err); status != test.status {
					t.Errorf("Unexpected status: %d", status)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if result != test.expected {
				t.Errorf("Unexpected result: %s", result)
			}
		})
	}
}

func TestEncodeKeys(t *testing.T) {
	input := map[string]interface{}{
		"startkey": []interface{}{"foo"},
		"endkey":   "bar",
		"keys":     []string{"a", "b"},
		"rev":      "1-xxx",
		"limit":    10,
	}
	if err := encodeKeys(input); err != nil {
		t.Fatal(err)
	}
	expected := map[string]interface{}{
		"startkey": `["foo"]`,
		"endkey":   `"bar"`,
		"keys":     `["a","b"]`,
		"rev":      "1-xxx",
		"limit":    10,
	}
	if d := testy.DiffInterface(expected, input); d != nil {
		t.Error(d)
	}
}
