package ui

import (
	"fmt"
	"strconv"
	"strings"

	"distrotui/internal/browser"
	"distrotui/internal/domain"
)

// route builds the screen for a location such as "/packages?page=2" or
// "/batches/builds/12"
func route(e *env, location string) (screen, error) {
	addr, err := browser.ParseAddress(location)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", location, err)
	}
	if addr.Values.Get(browser.ParamSize) == "" && e.pageSize != 0 && e.pageSize != browser.DefaultPageSize {
		addr.Values.Set(browser.ParamSize, strconv.Itoa(e.pageSize))
	}

	path := strings.Trim(addr.Path, "/")
	if path == "" {
		return newDashboardScreen(e), nil
	}
	parts := strings.Split(path, "/")
	addr.Path = "/" + path

	switch parts[0] {
	case "packages", "builds", "imports":
		collection := domain.Collection(parts[0])
		switch len(parts) {
		case 1:
			return listFor(e, collection, addr), nil
		case 2:
			id, err := parseID(parts[1])
			if err != nil {
				return nil, err
			}
			switch collection {
			case domain.CollectionPackages:
				return newPackageScreen(e, id), nil
			case domain.CollectionBuilds:
				return newBuildScreen(e, id), nil
			default:
				return newImportScreen(e, id), nil
			}
		}
	case "batches":
		if len(parts) < 2 {
			return nil, fmt.Errorf("unknown location %q", location)
		}
		kind, err := domain.ParseBatchKind(parts[1])
		if err != nil {
			return nil, err
		}
		switch len(parts) {
		case 2:
			addr.Path = "/batches/" + string(kind)
			return listFor(e, kind.Collection(), addr), nil
		case 3:
			id, err := parseID(parts[2])
			if err != nil {
				return nil, err
			}
			return newBatchScreen(e, kind, id), nil
		}
	}
	return nil, fmt.Errorf("unknown location %q", location)
}

func listFor(e *env, c domain.Collection, addr *browser.Address) screen {
	switch c {
	case domain.CollectionPackages:
		return newListScreen(packagesSpec(), e, addr)
	case domain.CollectionBuilds:
		return newListScreen(buildsSpec(), e, addr)
	case domain.CollectionImports:
		return newListScreen(importsSpec(), e, addr)
	case domain.CollectionBatchBuilds:
		return newListScreen(batchBuildsSpec(), e, addr)
	default:
		return newListScreen(batchImportsSpec(), e, addr)
	}
}

func parseID(s string) (domain.ID, error) {
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return "", fmt.Errorf("invalid id %q", s)
	}
	return domain.ParseID(s), nil
}
