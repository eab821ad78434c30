package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extensions a project document may carry, in lookup order.
var projectExtensions = []string{".yml", ".yaml", ".json"}

// Local project file names searched upward from the working directory when
// no project name is given.
var localProjectNames = []string{".rmux.yml", ".rmux.yaml", ".rmux.json"}

// Project is a named project document on disk.
type Project struct {
	Name string
	Path string
}

// FindProject resolves a project name to its document path inside the
// projects directory, trying each known extension.
func (c *Config) FindProject(name string) (Project, error) {
	for _, ext := range projectExtensions {
		path := filepath.Join(c.ProjectsDir, name+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return Project{Name: name, Path: path}, nil
		}
	}
	return Project{}, fmt.Errorf("project %q not found in %s", name, c.ProjectsDir)
}

// LocalProject searches the working directory and its ancestors for a
// local project file. The project name is the directory holding the file.
func LocalProject() (Project, error) {
	dir, err := os.Getwd()
	if err != nil {
		return Project{}, err
	}
	for {
		for _, name := range localProjectNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return Project{Name: filepath.Base(dir), Path: path}, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Project{}, fmt.Errorf("no local project file found (looked for %s upward from the working directory)", strings.Join(localProjectNames, ", "))
		}
		dir = parent
	}
}

// ListProjects returns all named projects in the projects directory,
// sorted by name. A missing directory is an empty list, not an error.
func (c *Config) ListProjects() ([]Project, error) {
	entries, err := os.ReadDir(c.ProjectsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var projects []Project
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !knownExtension(ext) {
			continue
		}
		projects = append(projects, Project{
			Name: strings.TrimSuffix(entry.Name(), ext),
			Path: filepath.Join(c.ProjectsDir, entry.Name()),
		})
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

func knownExtension(ext string) bool {
	for _, known := range projectExtensions {
		if ext == known {
			return true
		}
	}
	return false
}
