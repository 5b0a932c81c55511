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
	"io"
	"net/http"
	"strings"
	"testing"
)

type customTransport func(*http.Request) (*http.Response, error)

var _ http.RoundTripper = customTransport(nil)

func (c customTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := c(req)
	if resp != nil && resp.Request == nil {
		// The real http.Transport attaches the request to the response.
		resp.Request = req
	}
	return resp, err
}

// newCustomClient returns a client whose requests are served by fn.
// Request compression is disabled so that tests can inspect bodies.
func newCustomClient(t *testing.T, fn func(*http.Request) (*http.Response, error)) *Client {
	t.Helper()
	client, err := New("http://example.com/",
		OptionHTTPClient(&http.Client{Transport: customTransport(fn)}),
		OptionNoRequestCompression(),
	)
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func newTestClient(t *testing.T, resp *http.Response, err error) *Client {
	t.Helper()
	return newCustomClient(t, func(*http.Request) (*http.Response, error) {
		return resp, err
	})
}

func newCustomDB(t *testing.T, fn func(*http.Request) (*http.Response, error)) *DB {
	t.Helper()
	return newCustomClient(t, fn).DB("testdb")
}

func newTestDB(t *testing.T, resp *http.Response, err error) *DB {
	t.Helper()
	return newTestClient(t, resp, err).DB("testdb")
}

func Body(str string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(str))
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header: http.Header{
			"Content-Type": {"application/json"},
		},
		ContentLength: int64(len(body)),
		Body:          Body(body),
	}
}
