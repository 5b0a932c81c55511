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
	"fmt"
	"net/http"
	"net/url"

	internal "github.com/sofalabs/sofa/internal/errors"
)

// Option is a client or query option. Options are applied to an
// option-specific target; unrecognized targets are ignored, so any option
// may be passed to any method without effect where it does not apply.
type Option interface {
	// Apply applies the option to target, if target is of the expected
	// type.
	Apply(target interface{})
}

// Params allows passing a collection of key/value pairs as query
// parameters.
type Params map[string]interface{}

// Apply applies the params to target, if target is of type
// map[string]interface{}.
func (p Params) Apply(target interface{}) {
	if t, ok := target.(map[string]interface{}); ok {
		for k, v := range p {
			t[k] = v
		}
	}
}

// Param sets a single key/value query parameter.
func Param(key string, value interface{}) Option {
	return Params{key: value}
}

// Rev is a convenience for Param("rev", rev).
func Rev(rev string) Option {
	return Param("rev", rev)
}

type multiOptions []Option

var _ Option = (multiOptions)(nil)

func (o multiOptions) Apply(t interface{}) {
	for _, opt := range o {
		if opt != nil {
			opt.Apply(t)
		}
	}
}

// allOptions collects the variadic option slice passed to an operation.
func allOptions(options []Option) Option {
	return multiOptions(options)
}

// optionsToParams converts an applied options map into URL query values.
// Values listed in jsonKeys are JSON-encoded first.
func optionsToParams(opts map[string]interface{}) (url.Values, error) {
	if err := encodeKeys(opts); err != nil {
		return nil, err
	}
	params := url.Values{}
	for key, i := range opts {
		var values []string
		switch v := i.(type) {
		case string:
			values = []string{v}
		case []string:
			values = v
		case bool:
			values = []string{fmt.Sprintf("%t", v)}
		case int, uint, uint8, uint16, uint32, uint64, int8, int16, int32, int64:
			values = []string{fmt.Sprintf("%d", v)}
		default:
			return nil, &internal.Error{Status: http.StatusBadRequest, Err: fmt.Errorf("sofa: invalid type %T for option %q", i, key)}
		}
		for _, value := range values {
			params.Add(key, value)
		}
	}
	return params, nil
}

type clientOptions struct {
	httpClient    *http.Client
	auths         []authOption
	userAgents    []string
	noCompression bool
}

type authOption struct {
	kind             string
	username, secret string
}

type optionHTTPClient struct {
	*http.Client
}

func (c optionHTTPClient) Apply(target interface{}) {
	if o, ok := target.(*clientOptions); ok {
		o.httpClient = c.Client
	}
}

func (optionHTTPClient) String() string { return "custom *http.Client" }

// OptionHTTPClient may be passed to New to specify a custom
// [net/http.Client] to be used when making all API calls.
func OptionHTTPClient(client *http.Client) Option {
	return optionHTTPClient{Client: client}
}

type optionAuth authOption

func (a optionAuth) Apply(target interface{}) {
	if o, ok := target.(*clientOptions); ok {
		o.auths = append(o.auths, authOption(a))
	}
}

func (a optionAuth) String() string { return "[" + a.kind + " auth]" }

// BasicAuth authenticates all requests with HTTP Basic Auth.
func BasicAuth(username, password string) Option {
	return optionAuth{kind: "basic", username: username, secret: password}
}

// CookieAuth establishes a session with the server, and authenticates all
// requests with the session cookie. This is the default when credentials
// are embedded in the connection URL.
func CookieAuth(username, password string) Option {
	return optionAuth{kind: "cookie", username: username, secret: password}
}

// JWTAuth authenticates all requests with the provided bearer token.
func JWTAuth(token string) Option {
	return optionAuth{kind: "jwt", secret: token}
}

type optionUserAgent string

func (a optionUserAgent) Apply(target interface{}) {
	if o, ok := target.(*clientOptions); ok {
		o.userAgents = append(o.userAgents, string(a))
	}
}

func (a optionUserAgent) String() string {
	return fmt.Sprintf("[UserAgent:%s]", string(a))
}

// OptionUserAgent may be passed to New to append to the default User-Agent
// header sent on all requests.
func OptionUserAgent(ua string) Option {
	return optionUserAgent(ua)
}

type optionNoRequestCompression struct{}

func (optionNoRequestCompression) Apply(target interface{}) {
	if o, ok := target.(*clientOptions); ok {
		o.noCompression = true
	}
}

func (optionNoRequestCompression) String() string { return "[NoRequestCompression]" }

// OptionNoRequestCompression instructs the client not to use gzip
// compression for request bodies sent to the server. Only honored by New.
func OptionNoRequestCompression() Option {
	return optionNoRequestCompression{}
}

type createDocOptions struct {
	clientIDs bool
}

type optionClientIDs struct{}

func (optionClientIDs) Apply(target interface{}) {
	if o, ok := target.(*createDocOptions); ok {
		o.clientIDs = true
	}
}

func (optionClientIDs) String() string { return "[ClientIDs]" }

// OptionClientIDs instructs CreateDoc to generate the document ID on the
// client (a random UUID) and issue a PUT, rather than letting the server
// assign an ID via POST. Some proxies replay POSTs; a PUT to a fresh ID is
// safe to replay.
func OptionClientIDs() Option {
	return optionClientIDs{}
}

type resolveOptions struct {
	deleteRetries uint64
}

type optionDeleteRetry uint64

func (o optionDeleteRetry) Apply(target interface{}) {
	if t, ok := target.(*resolveOptions); ok {
		t.deleteRetries = uint64(o)
	}
}

func (o optionDeleteRetry) String() string {
	return fmt.Sprintf("[DeleteRetry:%d]", uint64(o))
}

// OptionDeleteRetry instructs ResolveConflict to retry the deletion of the
// superseded revision up to n additional times, with exponential backoff,
// before reporting partial resolution. The delete is idempotent: a
// document-not-found result on retry counts as success. By default no
// retry is attempted.
func OptionDeleteRetry(n uint64) Option {
	return optionDeleteRetry(n)
}
