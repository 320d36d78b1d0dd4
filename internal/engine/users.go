package engine

import (
	"github.com/forgeplan-dev/forgeplan/internal/config"
)

// UserRef is one resolved system user with its group attached.
type UserRef struct {
	Name     string `json:"name" yaml:"name"`
	Group    string `json:"group" yaml:"group"`
	GroupID  *int   `json:"gid,omitempty" yaml:"gid,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Home     string `json:"home,omitempty" yaml:"home,omitempty"`
	Shell    string `json:"shell,omitempty" yaml:"shell,omitempty"`
	ID       *int   `json:"id,omitempty" yaml:"id,omitempty"`
}

// mergeUsers flattens active user sections into one list. Duplicate user
// names collapse with the same collision policy as packages: profile-scoped
// declarations override unscoped ones, later declarations win among equals.
func mergeUsers(active []indexed[config.UserSection]) []UserRef {
	var users []UserRef
	position := make(map[string]int)
	scoped := make(map[string]bool)

	for _, item := range active {
		section := item.Section
		for _, u := range section.Users {
			ref := UserRef{
				Name:     u.Name,
				Group:    section.Group,
				GroupID:  cloneInt(section.GroupID),
				Password: u.Password,
				Home:     u.Home,
				Shell:    u.Shell,
				ID:       cloneInt(u.ID),
			}

			pos, exists := position[u.Name]
			if !exists {
				position[u.Name] = len(users)
				scoped[u.Name] = section.Scoped()
				users = append(users, ref)
				continue
			}
			if scoped[u.Name] && !section.Scoped() {
				continue
			}
			users[pos] = ref
			scoped[u.Name] = section.Scoped()
		}
	}
	return users
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
