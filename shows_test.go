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
	"context"
	"net/http"
	"testing"

	"gitlab.com/flimzy/testy"
)

func TestShow(t *testing.T) {
	t.Run("with document", func(t *testing.T) {
		db := newCustomDB(t, func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/testdb/_design/ddoc/_show/asHTML/foo" {
				t.Errorf("Unexpected path: %s", req.URL.Path)
			}
			if accept := req.Header.Get("Accept"); accept != "*/*" {
				t.Errorf("Unexpected Accept header: %s", accept)
			}
			return &http.Response{
				StatusCode:    200,
				Header:        http.Header{"Content-Type": {"text/html"}},
				ContentLength: 26,
				Body:          Body("<h1>foo</h1>"),
			}, nil
		})
		result, err := db.Show(context.Background(), "ddoc", "asHTML", "foo")
		if err != nil {
			t.Fatal(err)
		}
		if result.ContentType != "text/html" {
			t.Errorf("Unexpected content type: %s", result.ContentType)
		}
		if string(result.Body) != "<h1>foo</h1>" {
			t.Errorf("Unexpected body: %s", string(result.Body))
		}
	})
	t.Run("without document", func(t *testing.T) {
		db := newCustomDB(t, func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/testdb/_design/ddoc/_show/asHTML" {
				t.Errorf("Unexpected path: %s", req.URL.Path)
			}
			return &http.Response{
				StatusCode:    200,
				Header:        http.Header{"Content-Type": {"text/html"}},
				ContentLength: 13,
				Body:          Body("<h1>none</h1>"),
			}, nil
		})
		result, err := db.Show(context.Background(), "ddoc", "asHTML", "")
		if err != nil {
			t.Fatal(err)
		}
		if string(result.Body) != "<h1>none</h1>" {
			t.Errorf("Unexpected body: %s", string(result.Body))
		}
	})
	t.Run("missing show function", func(t *testing.T) {
		db := newTestDB(t, jsonResponse(404, `{"error":"not_found","reason":"missing show function asHTML on design doc _design/ddoc"}`), nil)
		_, err := db.Show(context.Background(), "ddoc", "asHTML", "foo")
		if !IsDocumentNotFound(err) {
			t.Fatalf("Expected document-not-found error, got %v", err)
		}
	})
	t.Run("missing show name", func(t *testing.T) {
		db := newTestDB(t, nil, nil)
		_, err := db.Show(context.Background(), "ddoc", "", "foo")
		if !testy.ErrorMatches("sofa: show required", err) {
			t.Errorf("Unexpected error: %v", err)
		}
	})
}
