package conversation

import (
	"encoding/json"
	"os"

	"github.com/mercafeira/assistant-go/internal/models"
)

// StaticProfile always reports the same logged-in profile. Useful for tests
// and single-user tooling.
type StaticProfile struct {
	User models.UserProfile
}

func (p StaticProfile) Profile() (models.UserProfile, bool) {
	return p.User, true
}

// FileProfile reads a JSON-encoded profile from disk on every call, so a
// login or logout performed elsewhere is picked up at the next send without
// restarting. A missing or malformed file means anonymous.
type FileProfile struct {
	Path string
}

func (p FileProfile) Profile() (models.UserProfile, bool) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return models.UserProfile{}, false
	}

	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return models.UserProfile{}, false
	}
	if profile.ID == 0 {
		return models.UserProfile{}, false
	}
	return profile, true
}
