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

package chttp

import (
	"net/http"
	"testing"

	"gitlab.com/flimzy/testy"

	internal "github.com/sofalabs/sofa/internal/errors"
)

func TestHTTPErrorError(t *testing.T) {
	tests := []struct {
		name     string
		input    *HTTPError
		expected string
	}{
		{
			name: "No reason",
			input: &HTTPError{
				Response: &http.Response{StatusCode: 400},
			},
			expected: "Bad Request",
		},
		{
			name: "Reason, HTTP code",
			input: &HTTPError{
				Response: &http.Response{StatusCode: 400},
				Reason:   "Bad stuff",
			},
			expected: "Bad Request: Bad stuff",
		},
		{
			name: "Non-HTTP code",
			input: &HTTPError{
				Response: &http.Response{StatusCode: 604},
				Reason:   "Bad stuff",
			},
			expected: "Bad stuff",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.input.Error()
			if result != test.expected {
				t.Errorf("Unexpected result: %s", result)
			}
		})
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		reason   string
		expected internal.Kind
	}{
		{
			name:     "missing database",
			status:   http.StatusNotFound,
			reason:   "no_db_file",
			expected: internal.KindDatabaseNotFound,
		},
		{
			name:     "missing attachment",
			status:   http.StatusNotFound,
			reason:   "Document is missing attachment",
			expected: internal.KindAttachmentNotFound,
		},
		{
			name:     "missing document",
			status:   http.StatusNotFound,
			reason:   "missing",
			expected: internal.KindDocumentNotFound,
		},
		{
			name:     "404 without reason",
			status:   http.StatusNotFound,
			expected: internal.KindDocumentNotFound,
		},
		{
			name:     "conflict",
			status:   http.StatusConflict,
			reason:   "Document update conflict.",
			expected: internal.KindConflict,
		},
		{
			name:     "precondition failed",
			status:   http.StatusPreconditionFailed,
			reason:   "The database could not be created, the file already exists.",
			expected: internal.KindPreconditionFailed,
		},
		{
			name:     "bad request",
			status:   http.StatusBadRequest,
			reason:   "invalid UTF-8 JSON",
			expected: internal.KindServerError,
		},
		{
			name:     "internal server error",
			status:   http.StatusInternalServerError,
			expected: internal.KindServerError,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := &HTTPError{
				Response: &http.Response{StatusCode: test.status},
				Reason:   test.reason,
			}
			if kind := err.ErrorKind(); kind != test.expected {
				t.Errorf("Unexpected kind: %s (expected %s)", kind, test.expected)
			}
		})
	}
}

func TestResponseError(t *testing.T) {
	tests := []struct {
		name   string
		resp   *http.Response
		status int
		kind   internal.Kind
		err    string
	}{
		{
			name: "non error",
			resp: &http.Response{StatusCode: 200},
		},
		{
			name: "HEAD error",
			resp: &http.Response{
				StatusCode: http.StatusNotFound,
				Request:    &http.Request{Method: "HEAD"},
				Body:       Body(""),
			},
			status: http.StatusNotFound,
			kind:   internal.KindDocumentNotFound,
			err:    "Not Found",
		},
		{
			name: "deleted database",
			resp: &http.Response{
				StatusCode: http.StatusNotFound,
				Header: http.Header{
					"Content-Type": {"application/json"},
				},
				ContentLength: 44,
				Body:          Body(`{"error":"not_found","reason":"no_db_file"}`),
				Request:       &http.Request{Method: "GET"},
			},
			status: http.StatusNotFound,
			kind:   internal.KindDatabaseNotFound,
			err:    "Not Found: no_db_file",
		},
		{
			name: "missing attachment",
			resp: &http.Response{
				StatusCode: http.StatusNotFound,
				Header: http.Header{
					"Content-Type": {"application/json"},
				},
				ContentLength: 66,
				Body:          Body(`{"error":"not_found","reason":"Document is missing attachment"}`),
				Request:       &http.Request{Method: "GET"},
			},
			status: http.StatusNotFound,
			kind:   internal.KindAttachmentNotFound,
			err:    "Not Found: Document is missing attachment",
		},
		{
			name: "missing document",
			resp: &http.Response{
				StatusCode: http.StatusNotFound,
				Header: http.Header{
					"Content-Type": {"application/json"},
				},
				ContentLength: 41,
				Body:          Body(`{"error":"not_found","reason":"missing"}`),
				Request:       &http.Request{Method: "GET"},
			},
			status: http.StatusNotFound,
			kind:   internal.KindDocumentNotFound,
			err:    "Not Found: missing",
		},
		{
			name: "update conflict",
			resp: &http.Response{
				StatusCode: http.StatusConflict,
				Header: http.Header{
					"Content-Type": {"application/json"},
				},
				ContentLength: 58,
				Body:          Body(`{"error":"conflict","reason":"Document update conflict."}`),
				Request:       &http.Request{Method: "PUT"},
			},
			status: http.StatusConflict,
			kind:   internal.KindConflict,
			err:    "Conflict: Document update conflict.",
		},
		{
			name: "database exists",
			resp: &http.Response{
				StatusCode: http.StatusPreconditionFailed,
				Header: http.Header{
					"Content-Type": {"application/json"},
				},
				ContentLength: 95,
				Body:          Body(`{"error":"file_exists","reason":"The database could not be created, the file already exists."}`),
				Request:       &http.Request{Method: "PUT"},
			},
			status: http.StatusPreconditionFailed,
			kind:   internal.KindPreconditionFailed,
			err:    "Precondition Failed: The database could not be created, the file already exists.",
		},
		{
			name: "invalid json response",
			resp: &http.Response{
				StatusCode: http.StatusBadRequest,
				Header: http.Header{
					"Content-Type": {"application/json"},
				},
				ContentLength: 7,
				Body:          Body("invalid"),
				Request:       &http.Request{Method: "GET"},
			},
			status: http.StatusBadRequest,
			kind:   internal.KindServerError,
			err:    "Bad Request",
		},
		{
			name: "non-JSON body ignored",
			resp: &http.Response{
				StatusCode: http.StatusInternalServerError,
				Header: http.Header{
					"Content-Type": {"text/html"},
				},
				ContentLength: 25,
				Body:          Body("<html>sorry about that</html>"),
				Request:       &http.Request{Method: "GET"},
			},
			status: http.StatusInternalServerError,
			kind:   internal.KindServerError,
			err:    "Internal Server Error",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ResponseError(test.resp)
			if err == nil {
				if test.err != "" {
					t.Fatalf("Expected error: %s", test.err)
				}
				return
			}
			if msg := err.Error(); msg != test.err {
				t.Errorf("Unexpected error: %s (expected %s)", msg, test.err)
			}
			if status := testy.StatusCode(err); status != test.status {
				t.Errorf("Unexpected status: %d (expected %d)", status, test.status)
			}
			if kind := internal.KindOf(err); kind != test.kind {
				t.Errorf("Unexpected kind: %s (expected %s)", kind, test.kind)
			}
		})
	}
}
