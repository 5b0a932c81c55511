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
	"net/http"

	"github.com/sofalabs/sofa/chttp"
)

// Client is a handle to a CouchDB server. It is cheap, stateless apart
// from its connection settings, and safe for concurrent use.
type Client struct {
	*chttp.Client
}

// New returns a new client handle for the server at dsn. If credentials
// are embedded in dsn, Cookie Auth is used; otherwise pass BasicAuth,
// CookieAuth, or JWTAuth as an option.
func New(dsn string, options ...Option) (*Client, error) {
	opts := &clientOptions{}
	for _, o := range options {
		if o != nil {
			o.Apply(opts)
		}
	}
	httpClient := opts.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	conn, err := chttp.New(httpClient, dsn)
	if err != nil {
		return nil, err
	}
	for _, a := range opts.auths {
		var auth chttp.Authenticator
		switch a.kind {
		case "basic":
			auth = &chttp.BasicAuth{Username: a.username, Password: a.secret}
		case "cookie":
			auth = &chttp.CookieAuth{Username: a.username, Password: a.secret}
		case "jwt":
			auth = &chttp.JWTAuth{Token: a.secret}
		}
		if err := conn.Auth(auth); err != nil {
			return nil, err
		}
	}
	conn.UserAgents = append(conn.UserAgents, opts.userAgents...)
	if opts.noCompression {
		conn.DisableRequestCompression()
	}
	return &Client{Client: conn}, nil
}

// DB returns a handle to the named database. The name is validated
// immediately; operations on a handle with an invalid name fail with the
// validation error without any request being sent.
func (c *Client) DB(dbName string) *DB {
	escaped, err := validateDBName(dbName)
	return &DB{
		client:  c,
		dbName:  dbName,
		escaped: escaped,
		err:     err,
	}
}
