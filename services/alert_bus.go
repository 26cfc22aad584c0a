package services

import (
	"time"

	"github.com/MarkCopeland8889/nutrisnap/models"

	"gorm.io/gorm"
)

type alertDeps struct {
	db *gorm.DB
	rt *RealtimeHub
}

var _alert alertDeps

func InitAlertDeps(db *gorm.DB, rt *RealtimeHub) {
	_alert = alertDeps{db: db, rt: rt}
}

// EmitAlert persists a per-user alert (estimation warnings, mostly) and
// pushes it to open sessions. Safe to call before InitAlertDeps; it becomes
// a no-op.
func EmitAlert(userID uint, typ, message string) {
	if _alert.db == nil {
		return
	}
	a := &models.Alert{UserID: userID, Type: typ, Message: message, CreatedAt: time.Now()}
	_ = _alert.db.Create(a).Error

	if _alert.rt != nil {
		_alert.rt.Broadcast(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
}

// EmitEvent pushes a transient event (meal.logged, meal.deleted) without
// persisting anything.
func EmitEvent(userID uint, kind string, payload any) {
	if _alert.rt == nil {
		return
	}
	_alert.rt.Broadcast(userID, map[string]any{
		"kind": kind,
		"data": payload,
	})
}
