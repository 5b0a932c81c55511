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
	"net/url"
	"regexp"

	internal "github.com/sofalabs/sofa/internal/errors"
)

// validDBName is the grammar the server enforces for database names. It is
// checked locally so that an invalid name fails before any request is sent.
var validDBName = regexp.MustCompile(`^[a-z][a-z0-9_$()+/-]*$`)

// validateDBName returns the URL-encoded database name, or an error if the
// name violates the allowed grammar.
func validateDBName(dbName string) (string, error) {
	if !validDBName.MatchString(dbName) {
		return "", &internal.Error{
			Status:  http.StatusBadRequest,
			Kind:    internal.KindInvalidDBName,
			Message: "invalid database name: " + dbName,
		}
	}
	return url.PathEscape(dbName), nil
}
