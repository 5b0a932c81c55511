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
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/sofalabs/sofa/chttp"
	internal "github.com/sofalabs/sofa/internal/errors"
)

func missingArg(arg string) error {
	return &internal.Error{Status: http.StatusBadRequest, Message: "sofa: " + arg + " required"}
}

// AllDBs returns a list of all databases on the server.
func (c *Client) AllDBs(ctx context.Context, options ...Option) ([]string, error) {
	opts := map[string]interface{}{}
	allOptions(options).Apply(opts)
	query, err := optionsToParams(opts)
	if err != nil {
		return nil, err
	}
	var allDBs []string
	err = c.DoJSON(ctx, http.MethodGet, "/_all_dbs", &chttp.Options{Query: query}, &allDBs)
	return allDBs, err
}

// DBExists returns true if the named database exists.
func (c *Client) DBExists(ctx context.Context, dbName string) (bool, error) {
	escaped, err := validateDBName(dbName)
	if err != nil {
		return false, err
	}
	_, err = c.DoError(ctx, http.MethodHead, escaped, nil)
	if KindOf(err) == KindDocumentNotFound {
		return false, nil
	}
	return err == nil, err
}

// CreateDB creates the named database. The name is validated locally
// before any request is sent. Creating a database that already exists
// fails with a precondition-failed error.
func (c *Client) CreateDB(ctx context.Context, dbName string, options ...Option) error {
	escaped, err := validateDBName(dbName)
	if err != nil {
		return err
	}
	opts := map[string]interface{}{}
	allOptions(options).Apply(opts)
	query, err := optionsToParams(opts)
	if err != nil {
		return err
	}
	_, err = c.DoError(ctx, http.MethodPut, escaped, &chttp.Options{Query: query})
	return err
}

// DestroyDB deletes the named database.
func (c *Client) DestroyDB(ctx context.Context, dbName string) error {
	escaped, err := validateDBName(dbName)
	if err != nil {
		return err
	}
	_, err = c.DoError(ctx, http.MethodDelete, escaped, nil)
	return err
}

// DBInfo describes a database, as reported by the server.
type DBInfo struct {
	Name            string          `json:"db_name"`
	DocCount        int64           `json:"doc_count"`
	DeletedDocCount int64           `json:"doc_del_count"`
	UpdateSeq       json.RawMessage `json:"update_seq"` // string since 2.x, number in 1.x
	CompactRunning  bool            `json:"compact_running"`
	DiskSize        int64           `json:"disk_size"`
	DataSize        int64           `json:"data_size"`
}

// DBInfo returns information about the named database.
func (c *Client) DBInfo(ctx context.Context, dbName string) (*DBInfo, error) {
	escaped, err := validateDBName(dbName)
	if err != nil {
		return nil, err
	}
	info := &DBInfo{}
	err = c.DoJSON(ctx, http.MethodGet, escaped, nil, info)
	return info, err
}

// ServerVersion reports the server's welcome metadata.
type ServerVersion struct {
	Version string `json:"version"`
	Vendor  struct {
		Name string `json:"name"`
	} `json:"vendor"`
}

// Version returns the server's version info, from the welcome endpoint.
func (c *Client) Version(ctx context.Context) (*ServerVersion, error) {
	ver := &ServerVersion{}
	err := c.DoJSON(ctx, http.MethodGet, "/", nil, ver)
	return ver, err
}

// Ping returns true if the server is up.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	resp, err := c.DoError(ctx, http.MethodHead, "/_up", nil)
	if HTTPStatus(err) == http.StatusBadRequest {
		// Servers predating the /_up endpoint answer 400.
		return resp.Header.Get("Server") != "", nil
	}
	if KindOf(err) == KindDocumentNotFound {
		return false, nil
	}
	return err == nil, err
}

// ReplicationResult is the server's report of a completed replication.
type ReplicationResult struct {
	OK            bool            `json:"ok"`
	SessionID     string          `json:"session_id"`
	SourceLastSeq json.RawMessage `json:"source_last_seq"`
	History       []struct {
		DocsRead         int64 `json:"docs_read"`
		DocsWritten      int64 `json:"docs_written"`
		DocWriteFailures int64 `json:"doc_write_failures"`
		MissingChecked   int64 `json:"missing_checked"`
		MissingFound     int64 `json:"missing_found"`
	} `json:"history"`
}

// Replicate requests a replication from source to target, and blocks until
// the server reports completion. Source and target may be database names
// on this server, or full URLs of remote databases. Supported params
// include "create_target" and "continuous".
func (c *Client) Replicate(ctx context.Context, target, source string, options ...Option) (*ReplicationResult, error) {
	if target == "" {
		return nil, missingArg("target")
	}
	if source == "" {
		return nil, missingArg("source")
	}
	body := map[string]interface{}{
		"source": source,
		"target": target,
	}
	allOptions(options).Apply(body)
	opts := &chttp.Options{
		GetBody: chttp.BodyEncoder(body),
		Query:   url.Values{},
	}
	result := &ReplicationResult{}
	err := c.DoJSON(ctx, http.MethodPost, "/_replicate", opts, result)
	return result, err
}
