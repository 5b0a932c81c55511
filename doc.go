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

// Package sofa is a client for the CouchDB HTTP API. It holds no state
// between calls: every operation is a single synchronous request-response
// cycle (or a short fixed sequence of them), safe for concurrent use.
//
// Construct a Client once with the server's base URL, then address
// databases through handles:
//
//	client, err := sofa.New("http://localhost:5984/")
//	if err != nil {
//		// ...
//	}
//	db := client.DB("recipes")
//	var doc map[string]interface{}
//	rev, err := db.Get(context.Background(), "spaghetti", &doc)
//
// HTTP error statuses are mapped to typed error conditions; inspect them
// with the Kind predicates:
//
//	if sofa.IsDocumentNotFound(err) {
//		// ...
//	}
package sofa
