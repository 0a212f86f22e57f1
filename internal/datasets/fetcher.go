package datasets

import (
	"github.com/DataAtlasHQ/DA-Backend/internal/auth"
	"github.com/DataAtlasHQ/DA-Backend/internal/db"
	"github.com/DataAtlasHQ/DA-Backend/internal/utils"
)

type SessionInfo struct{}

func (si SessionInfo) FindSessionByID(id string) (utils.SessionData, error) {
	var session auth.Session

	err := db.DB.First(&session, "session_id = ?", id).Error
	if err != nil {
		return utils.SessionData{}, err
	}

	return utils.SessionData{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}
