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
	"strings"
	"testing"

	"gitlab.com/flimzy/testy"
)

func TestNew(t *testing.T) {
	t.Run("no dsn", func(t *testing.T) {
		_, err := New("")
		testy.StatusError(t, "no URL specified", http.StatusBadRequest, err)
	})
	t.Run("custom user agent", func(t *testing.T) {
		var ua string
		transport := customTransport(func(req *http.Request) (*http.Response, error) {
			ua = req.UserAgent()
			return jsonResponse(200, `["_users"]`), nil
		})
		client, err := New("http://example.com/",
			OptionHTTPClient(&http.Client{Transport: transport}),
			OptionUserAgent("MyApp/1.2.3"),
		)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := client.AllDBs(context.Background()); err != nil {
			t.Fatal(err)
		}
		if !strings.HasSuffix(ua, "MyApp/1.2.3") {
			t.Errorf("Custom agent missing: %s", ua)
		}
	})
	t.Run("basic auth option", func(t *testing.T) {
		var user, password string
		transport := customTransport(func(req *http.Request) (*http.Response, error) {
			user, password, _ = req.BasicAuth()
			return jsonResponse(200, `["_users"]`), nil
		})
		client, err := New("http://example.com/",
			OptionHTTPClient(&http.Client{Transport: transport}),
			BasicAuth("bob", "secret"),
		)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := client.AllDBs(context.Background()); err != nil {
			t.Fatal(err)
		}
		if user != "bob" || password != "secret" {
			t.Errorf("Unexpected credentials: %s/%s", user, password)
		}
	})
	t.Run("jwt auth option", func(t *testing.T) {
		var authz string
		transport := customTransport(func(req *http.Request) (*http.Response, error) {
			authz = req.Header.Get("Authorization")
			return jsonResponse(200, `["_users"]`), nil
		})
		client, err := New("http://example.com/",
			OptionHTTPClient(&http.Client{Transport: transport}),
			JWTAuth("tok123"),
		)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := client.AllDBs(context.Background()); err != nil {
			t.Fatal(err)
		}
		if authz != "Bearer tok123" {
			t.Errorf("Unexpected Authorization header: %s", authz)
		}
	})
}

func TestClientDB(t *testing.T) {
	client := newTestClient(t, nil, nil)
	t.Run("valid name", func(t *testing.T) {
		db := client.DB("valid_name")
		if db.Err() != nil {
			t.Errorf("Unexpected error: %v", db.Err())
		}
		if db.Name() != "valid_name" {
			t.Errorf("Unexpected name: %s", db.Name())
		}
	})
	t.Run("invalid name", func(t *testing.T) {
		db := client.DB("_invalid")
		if !IsInvalidDBName(db.Err()) {
			t.Errorf("Expected invalid-name error, got %v", db.Err())
		}
	})
}
