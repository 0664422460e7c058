//go:build e2e && unix

package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const (
	fixturePackages = `{"items":[
{"id":12,"name":"bash","responsible_username":"alice","is_package":true},
{"id":13,"name":"kernel","responsible_username":"bob","is_module":true},
{"id":14,"name":"glibc","responsible_username":"carol","is_package":true}],"total":3,"page":0,"size":25}`

	fixtureImports = `{"items":[{"id":6,"status":"SUCCEEDED","version":8,"executor_username":"alice",
"created_at":"2021-06-01T10:00:00","package":{"id":12,"name":"bash"}}],"total":1,"page":0,"size":5}`

	fixtureBuilds = `{"items":[{"id":5,"status":"FAILED","koji_id":1001,"executor_username":"bob",
"created_at":"2021-06-01T11:00:00","package":{"id":13,"name":"kernel"}}],"total":1,"page":0,"size":5}`

	fixturePackage = `{"id":12,"name":"bash","responsible_username":"alice","is_package":true,
"imports":[{"id":6,"status":"SUCCEEDED","version":8}],"builds":[]}`

	fixtureImport = `{"id":6,"status":"SUCCEEDED","version":8,"executor_username":"alice",
"created_at":"2021-06-01T10:00:00","commit":"abc123","package":{"id":12,"name":"bash"}}`

	fixtureLogs = "Cloning bash\nImported bash-5.1.8 into dist-git\n"
)

// fakeAPI is a canned distrobuild API that records every request line,
// with the body appended for POSTs
type fakeAPI struct {
	*httptest.Server
	mu       sync.Mutex
	requests []string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	f := &fakeAPI{}
	routes := map[string]string{
		"GET /api/packages/":         fixturePackages,
		"GET /api/imports/":          fixtureImports,
		"GET /api/builds/":           fixtureBuilds,
		"GET /api/packages/12":       fixturePackage,
		"GET /api/imports/6":         fixtureImport,
		"GET /api/batches/builds/":   `{"items":[],"total":0,"page":0,"size":25}`,
		"GET /api/batches/imports/":  `{"items":[],"total":0,"page":0,"size":25}`,
		"POST /api/batches/builds/":  `{"id":42}`,
		"POST /api/batches/imports/": `{"id":43}`,
		"GET /api/batches/builds/42": `{"id":42,"builds":[]}`,
	}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		line := r.Method + " " + r.URL.Path + "?" + r.URL.RawQuery
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			line += " " + string(body)
		}
		f.mu.Lock()
		f.requests = append(f.requests, line)
		f.mu.Unlock()

		if r.Method == http.MethodGet && r.URL.Path == "/api/imports/6/logs" {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = io.WriteString(w, fixtureLogs)
			return
		}
		body, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(f.Close)
	return f
}

// Requested reports whether a request line containing every part was seen
func (f *fakeAPI) Requested(parts ...string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.requests {
		matched := true
		for _, p := range parts {
			if !strings.Contains(req, p) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
