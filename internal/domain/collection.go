package domain

import (
	"fmt"
	"strings"
)

// Collection names a listing endpoint of the API
type Collection string

const (
	CollectionPackages     Collection = "packages"
	CollectionBuilds       Collection = "builds"
	CollectionImports      Collection = "imports"
	CollectionBatchImports Collection = "batches/imports"
	CollectionBatchBuilds  Collection = "batches/builds"
)

// Path returns the collection path with its trailing slash, e.g. "/builds/"
func (c Collection) Path() string {
	return "/" + string(c) + "/"
}

// ItemPath returns the path of one entity in the collection
func (c Collection) ItemPath(id ID) string {
	return "/" + string(c) + "/" + id.String()
}

// BatchKind is the kind of work a batch groups
type BatchKind string

const (
	BatchImports BatchKind = "imports"
	BatchBuilds  BatchKind = "builds"
)

// ParseBatchKind accepts "imports"/"builds" and their singular forms
func ParseBatchKind(s string) (BatchKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "imports", "import":
		return BatchImports, nil
	case "builds", "build":
		return BatchBuilds, nil
	}
	return "", fmt.Errorf("unknown batch kind %q (want imports or builds)", s)
}

// Collection returns the listing of batches of this kind
func (k BatchKind) Collection() Collection {
	if k == BatchBuilds {
		return CollectionBatchBuilds
	}
	return CollectionBatchImports
}

// ItemCollection returns the collection the batch's members live in
func (k BatchKind) ItemCollection() Collection {
	if k == BatchBuilds {
		return CollectionBuilds
	}
	return CollectionImports
}

// Target identifies a package for an action, either by id or by name
type Target struct {
	PackageID   ID     `json:"package_id,omitempty"`
	PackageName string `json:"package_name,omitempty"`
}

func (t Target) String() string {
	if !t.PackageID.IsZero() {
		return "#" + t.PackageID.String()
	}
	return t.PackageName
}
