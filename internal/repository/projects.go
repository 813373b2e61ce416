// Package repository answers listing and lookup queries over the content
// store. Repositories hold no mutable state and are safe for concurrent use.
package repository

import "github.com/Zachkp/kussetech/internal/content"

type ProjectRepository struct {
	store *content.Store
}

func NewProjectRepository(store *content.Store) *ProjectRepository {
	return &ProjectRepository{store: store}
}

// All returns every project in definition order.
func (r *ProjectRepository) All() []content.Project {
	return r.store.Projects()
}

func (r *ProjectRepository) Featured() []content.Project {
	var featured []content.Project
	for _, p := range r.store.Projects() {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured
}

// ByID reports false when no project has the id.
func (r *ProjectRepository) ByID(id int) (content.Project, bool) {
	for _, p := range r.store.Projects() {
		if p.ID == id {
			return p, true
		}
	}
	return content.Project{}, false
}

func (r *ProjectRepository) ByCategory(category string) []content.Project {
	var matched []content.Project
	for _, p := range r.store.Projects() {
		if p.Category == category {
			matched = append(matched, p)
		}
	}
	return matched
}

// Categories lists distinct project categories in first-seen order.
func (r *ProjectRepository) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range r.store.Projects() {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories
}

type ServiceRepository struct {
	store *content.Store
}

func NewServiceRepository(store *content.Store) *ServiceRepository {
	return &ServiceRepository{store: store}
}

func (r *ServiceRepository) All() []content.Service {
	return r.store.Services()
}
