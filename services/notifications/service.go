package notifications

import (
	"campushub_go/config"
	"campushub_go/database"
	"campushub_go/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Queue item stored in Redis. Kept minimal; one payload can fan out to many
// user ids. When Redis is down or disabled, inserts go straight to the DB.
type queuedNotification struct {
	UserIDs   []uint    `json:"user_ids"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const redisListKey = "notifications:queue"

// Service creates notifications, optionally via a Redis queue drained by the
// background worker.
type Service struct {
	db       *gorm.DB
	redis    *redis.Client
	useRedis bool
	wsHub    WSHub
}

// WSHub interface for WebSocket broadcasting
type WSHub interface {
	BroadcastToUser(userID uint, message interface{})
}

// defaultHub lets services created anywhere broadcast over the same hub
// without manual wiring per instance.
var defaultHub WSHub

// SetDefaultWSHub sets the package-level default WebSocket hub.
func SetDefaultWSHub(h WSHub) {
	defaultHub = h
}

func NewService() *Service {
	return &Service{
		db:       database.GetDB(),
		redis:    database.GetRedisClient(),
		useRedis: config.AppConfig != nil && config.AppConfig.UseRedisNotifications && database.GetRedisClient() != nil,
		wsHub:    defaultHub,
	}
}

// Queued builds a minimal notification payload.
func Queued(title, message, typ string) queuedNotification {
	return queuedNotification{Title: title, Message: message, Type: typ}
}

// QueuedWithData attaches a structured payload (deep links, ids).
func QueuedWithData(title, message, typ string, data any) queuedNotification {
	return queuedNotification{Title: title, Message: message, Type: typ, Data: data}
}

// EnqueueOrCreate queues via Redis when enabled, else inserts directly.
func (s *Service) EnqueueOrCreate(userIDs []uint, n queuedNotification) error {
	if len(userIDs) == 0 {
		return errors.New("no user ids")
	}
	n.UserIDs = userIDs
	n.CreatedAt = time.Now().UTC()

	if s.useRedis {
		b, err := json.Marshal(n)
		if err != nil {
			return err
		}
		if err = s.redis.RPush(context.Background(), redisListKey, b).Err(); err == nil {
			return nil
		}
		log.Printf("[notif] Redis queue failed, falling back to direct insert: %v", err)
	}

	return s.createDirect(userIDs, n)
}

// createDirect writes to the DB and pushes over the hub.
func (s *Service) createDirect(userIDs []uint, n queuedNotification) error {
	if len(userIDs) == 0 {
		return nil
	}

	var dataJSON []byte
	if n.Data != nil {
		if b, err := json.Marshal(n.Data); err == nil {
			dataJSON = b
		}
	}

	notifs := make([]models.Notification, 0, len(userIDs))
	for _, uid := range userIDs {
		notifs = append(notifs, models.Notification{
			UserID:  uid,
			Title:   n.Title,
			Message: n.Message,
			Type:    n.Type,
			Read:    false,
			Data:    dataJSON,
		})
	}

	if err := s.db.Create(&notifs).Error; err != nil {
		return err
	}

	if s.wsHub != nil {
		for _, notif := range notifs {
			s.wsHub.BroadcastToUser(notif.UserID, map[string]interface{}{
				"type": "notification",
				"data": notif,
			})
		}
	}
	return nil
}

// StartWorker polls the Redis queue and flushes batches to the DB.
func (s *Service) StartWorker(stop <-chan struct{}) {
	if !s.useRedis {
		log.Println("[notif] Redis notifications disabled; worker not started")
		return
	}
	go func() {
		log.Println("[notif] Redis notification worker started")
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		ctx := context.Background()
		batchSize := 200
		for {
			select {
			case <-stop:
				log.Println("[notif] Worker stopping")
				return
			case <-ticker.C:
				s.flushBatch(ctx, batchSize)
			}
		}
	}()
}

// flushBatch drains up to five sub-batches per tick.
func (s *Service) flushBatch(ctx context.Context, batchSize int) {
	if s.redis == nil {
		return
	}
	for i := 0; i < 5; i++ {
		vals, err := s.redis.LRange(ctx, redisListKey, 0, int64(batchSize-1)).Result()
		if err != nil || len(vals) == 0 {
			return
		}
		// Trim immediately so a second worker will not double-process
		if err = s.redis.LTrim(ctx, redisListKey, int64(len(vals)), -1).Err(); err != nil {
			log.Printf("[notif] LTrim failed: %v", err)
		}
		for _, raw := range vals {
			var q queuedNotification
			if err := json.Unmarshal([]byte(raw), &q); err != nil {
				continue
			}
			if err := s.createDirect(q.UserIDs, q); err != nil {
				log.Printf("[notif] DB insert failed: %v", err)
			}
		}
		if len(vals) < batchSize {
			return
		}
	}
}

// NotifySessionActivated tells every student scheduled for the session's
// course that check-in is open.
func (s *Service) NotifySessionActivated(session *models.Session) {
	userIDs, err := scheduledStudentUserIDs(session.CourseID)
	if err != nil {
		log.Printf("[notif] failed to resolve students for session %s: %v", session.ID, err)
		return
	}
	if len(userIDs) == 0 {
		return
	}

	n := QueuedWithData(
		"Session started",
		fmt.Sprintf("%q is now active. Check in with code %s.", session.Title, session.AttendanceCode),
		"info",
		map[string]interface{}{"session_id": session.ID, "course_id": session.CourseID},
	)
	if err := s.EnqueueOrCreate(userIDs, n); err != nil {
		log.Printf("[notif] failed to notify session activation: %v", err)
	}
}

// NotifyLeaveReviewed tells the requester the outcome of their leave request.
func (s *Service) NotifyLeaveReviewed(request *models.LeaveRequest) {
	var userID uint
	if request.StudentID != nil {
		userID = *request.StudentID
	} else if request.TeacherID != nil {
		userID = *request.TeacherID
	} else {
		return
	}

	typ := "success"
	if request.Status == models.LeaveStatusRejected {
		typ = "warning"
	}
	n := QueuedWithData(
		"Leave request reviewed",
		fmt.Sprintf("Your %s leave request was %s.", request.LeaveType, request.Status),
		typ,
		map[string]interface{}{"leave_request_id": request.ID},
	)
	if err := s.EnqueueOrCreate([]uint{userID}, n); err != nil {
		log.Printf("[notif] failed to notify leave review: %v", err)
	}
}

// scheduledStudentUserIDs walks course schedules to the linked accounts of
// every student in a scheduled group.
func scheduledStudentUserIDs(courseID string) ([]uint, error) {
	var groupIDs []uint
	if err := database.DB.Model(&models.Schedule{}).Distinct("group_id").
		Where("course_id = ? AND is_active = ?", courseID, true).
		Pluck("group_id", &groupIDs).Error; err != nil {
		return nil, err
	}
	if len(groupIDs) == 0 {
		return nil, nil
	}

	var students []models.Student
	if err := database.DB.Select("user_id").
		Where("group_id IN ? AND user_id IS NOT NULL", groupIDs).
		Find(&students).Error; err != nil {
		return nil, err
	}
	userIDs := make([]uint, 0, len(students))
	for i := range students {
		if students[i].UserID != nil {
			userIDs = append(userIDs, *students[i].UserID)
		}
	}
	return userIDs, nil
}
