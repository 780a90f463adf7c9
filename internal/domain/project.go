package domain

import "strings"

// Project is one tracked task card and its current list membership.
type Project struct {
	ID          string
	Title       string
	Description string
	Info        string
	List        ListName
}

// ProjectInput holds raw values for NewProject.
type ProjectInput struct {
	ID          string
	Title       string
	Description string
	Info        string
	List        string
}

// NewProject validates input and constructs a project record.
func NewProject(in ProjectInput) (*Project, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Title = strings.TrimSpace(in.Title)
	if in.ID == "" {
		return nil, ErrInvalidID
	}
	if in.Title == "" {
		return nil, ErrInvalidTitle
	}
	list, err := ParseListName(in.List)
	if err != nil {
		return nil, err
	}
	return &Project{
		ID:          in.ID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Info:        strings.TrimSpace(in.Info),
		List:        list,
	}, nil
}

// InfoID returns the id used for this project's info popover.
func (p *Project) InfoID() string {
	return "info-" + p.ID
}
