package domain

import "time"

// Package represents a source package tracked by distrobuild
type Package struct {
	ID                  ID       `json:"id"`
	Name                string   `json:"name"`
	ResponsibleUsername string   `json:"responsible_username"`
	IsModule            bool     `json:"is_module"`
	IsPackage           bool     `json:"is_package"`
	PartOfModule        bool     `json:"part_of_module"`
	LastImport          *Time    `json:"last_import"`
	LastBuild           *Time    `json:"last_build"`
	EL8                 bool     `json:"el8"`
	EL9                 bool     `json:"el9"`
	Repo                string   `json:"repo"`
	Imports             []Import `json:"imports,omitempty"`
	Builds              []Build  `json:"builds,omitempty"`
}

func (p Package) Key() string { return p.ID.String() }

// Kind returns a short label describing what the package is
func (p Package) Kind() string {
	switch {
	case p.IsModule && p.IsPackage:
		return "module+package"
	case p.IsModule:
		return "module"
	case p.PartOfModule:
		return "module component"
	default:
		return "package"
	}
}

// Build is a single build of a package in koji/MBS
type Build struct {
	ID               ID       `json:"id"`
	CreatedAt        Time     `json:"created_at"`
	Status           Status   `json:"status"`
	Mbs              bool     `json:"mbs"`
	KojiID           *int64   `json:"koji_id"`
	MbsID            *int64   `json:"mbs_id"`
	ExecutorUsername string   `json:"executor_username"`
	ForceTag         *string  `json:"force_tag"`
	Branch           string   `json:"branch"`
	Commit           string   `json:"commit"`
	Package          *Package `json:"package"`
}

func (b Build) Key() string { return b.ID.String() }

// Import is a single import of a package into the build system's git
type Import struct {
	ID               ID       `json:"id"`
	CreatedAt        Time     `json:"created_at"`
	Status           Status   `json:"status"`
	Module           bool     `json:"module"`
	Version          int      `json:"version"`
	ExecutorUsername string   `json:"executor_username"`
	Commit           string   `json:"commit"`
	Package          *Package `json:"package"`
}

func (i Import) Key() string { return i.ID.String() }

// BatchImport groups imports queued together
type BatchImport struct {
	ID        ID       `json:"id"`
	CreatedAt Time     `json:"created_at"`
	Imports   []Import `json:"imports"`
}

func (b BatchImport) Key() string { return b.ID.String() }

// Statuses returns the status of every import in the batch
func (b BatchImport) Statuses() []Status {
	out := make([]Status, len(b.Imports))
	for i, imp := range b.Imports {
		out[i] = imp.Status
	}
	return out
}

// BatchBuild groups builds queued together
type BatchBuild struct {
	ID        ID      `json:"id"`
	CreatedAt Time    `json:"created_at"`
	Builds    []Build `json:"builds"`
}

func (b BatchBuild) Key() string { return b.ID.String() }

// Statuses returns the status of every build in the batch
func (b BatchBuild) Statuses() []Status {
	out := make([]Status, len(b.Builds))
	for i, build := range b.Builds {
		out[i] = build.Status
	}
	return out
}

// Dashboard holds the most recent activity shown on the landing screen
type Dashboard struct {
	Imports Page[Import]
	Builds  Page[Build]
}

// Time wraps time.Time to accept the server's timestamps with or without a zone
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return t.Time.MarshalJSON()
}

func (t Time) MarshalYAML() (interface{}, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Time, nil
}

// String formats the timestamp the way the dashboard lists show it
func (t Time) String() string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
