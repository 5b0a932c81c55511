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
	"fmt"
	"net/http"
	"strings"
)

// BasicAuth provides HTTP Basic Auth for a client.
type BasicAuth struct {
	Username string
	Password string

	// transport stores the original transport that is overridden by this
	// auth mechanism
	transport http.RoundTripper
}

var (
	_ Authenticator     = &BasicAuth{}
	_ http.RoundTripper = &BasicAuth{}
)

func (a *BasicAuth) String() string {
	return fmt.Sprintf("[BasicAuth{user:%s,pass:%s}]", a.Username, strings.Repeat("*", len(a.Password)))
}

// RoundTrip fulfills the http.RoundTripper interface. It sets HTTP Basic
// Auth on outbound requests.
func (a *BasicAuth) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(a.Username, a.Password)
	return a.transport.RoundTrip(req)
}

// Authenticate sets HTTP Basic Auth headers for the client.
func (a *BasicAuth) Authenticate(c *Client) error {
	a.transport = c.Transport
	if a.transport == nil {
		a.transport = http.DefaultTransport
	}
	c.Transport = a
	return nil
}

// JWTAuth provides JWT based auth for a client.
type JWTAuth struct {
	Token string

	transport http.RoundTripper
}

var (
	_ Authenticator     = &JWTAuth{}
	_ http.RoundTripper = &JWTAuth{}
)

func (a *JWTAuth) String() string {
	token := a.Token
	const unmaskedLen = 3
	if len(token) > unmaskedLen {
		token = token[:unmaskedLen] + strings.Repeat("*", len(token)-unmaskedLen)
	}
	return fmt.Sprintf("[JWTAuth{token:%s}]", token)
}

// RoundTrip satisfies the http.RoundTripper interface.
func (a *JWTAuth) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+a.Token)
	return a.transport.RoundTrip(req)
}

// Authenticate performs authentication against CouchDB.
func (a *JWTAuth) Authenticate(c *Client) error {
	a.transport = c.Transport
	if a.transport == nil {
		a.transport = http.DefaultTransport
	}
	c.Transport = a
	return nil
}
