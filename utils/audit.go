package utils

import (
	"encoding/json"
	"net"

	"github.com/abhijitkayal/safar-hub-sub001/models"
	"github.com/abhijitkayal/safar-hub-sub001/storage"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// Audit records a staff-initiated mutation. Failures are swallowed on
// purpose; the audit trail must never block the request itself.
func Audit(ctx iris.Context, action, resourceType string, resourceID uint, detail interface{}) {
	var detailStr string
	if detail != nil {
		if d, err := json.Marshal(detail); err == nil {
			detailStr = string(d)
		}
	}
	var actorID uint
	var actorRole string
	if tok := jsonWT.Get(ctx); tok != nil {
		if at, ok := tok.(*AccessToken); ok {
			actorID = at.ID
			actorRole = at.Role
		}
	}
	entry := models.AuditLog{
		ActorID:      actorID,
		ActorRole:    actorRole,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		DetailJSON:   detailStr,
		IPAddress:    clientIP(ctx),
	}
	storage.DB.Create(&entry)
}

func clientIP(ctx iris.Context) string {
	if ip := ctx.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	ip, _, _ := net.SplitHostPort(ctx.RemoteAddr())
	return ip
}
