package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AlexandreSaynov/tp1ADC/internal"
	"github.com/AlexandreSaynov/tp1ADC/repositories"
)

// inspectMapper decodes chat and user records. Password hashes are never shown.
func inspectMapper(key string, val []byte) internal.InspectRow {
	row := internal.DefaultMapper(key, val)
	switch {
	case strings.HasPrefix(key, "chat:"):
		c, err := repositories.DecodeChat(val)
		if err != nil {
			row.Detail = "undecodable: " + err.Error()
			return row
		}
		row.Detail = fmt.Sprintf("%q owner=%s participants=%d messages=%d",
			c.Name, c.Owner, len(c.Participants), len(c.Messages))
	case strings.HasPrefix(key, "user:"):
		var u repositories.User
		if err := json.Unmarshal(val, &u); err != nil {
			row.Detail = "undecodable: " + err.Error()
			return row
		}
		row.Detail = fmt.Sprintf("id=%s role=%s email=%s", u.ID, u.Role, u.Email)
	case strings.HasPrefix(key, "uid:"), strings.HasPrefix(key, "meta:"):
		row.Detail = string(val)
	}
	return row
}
