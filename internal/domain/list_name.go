package domain

import "strings"

// ListName identifies one of the two board lists a project can belong to.
type ListName string

// ListActive and ListFinished are the only list names a board knows about.
const (
	ListActive   ListName = "active"
	ListFinished ListName = "finished"
)

// ListNames returns every list name in board order.
func ListNames() []ListName {
	return []ListName{ListActive, ListFinished}
}

// ParseListName normalizes raw input into a known list name.
func ParseListName(raw string) (ListName, error) {
	name := ListName(strings.ToLower(strings.TrimSpace(raw)))
	switch name {
	case ListActive, ListFinished:
		return name, nil
	default:
		return "", ErrInvalidListName
	}
}

// String returns the list name as plain text.
func (n ListName) String() string {
	return string(n)
}

// MountID returns the host mount point id for the list ("<name>-projects").
func (n ListName) MountID() string {
	return string(n) + "-projects"
}

// ContainerID returns the id of the rendered list container ("<name>-list").
func (n ListName) ContainerID() string {
	return string(n) + "-list"
}
