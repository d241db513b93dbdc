package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/internal/spatial"
)

// DefaultSOSMessage is used when the client sends no message
const DefaultSOSMessage = "Emergency SOS sent"

// EmergencyService sends SOS alerts and location shares to trusted contacts
type EmergencyService struct {
	contacts ContactStore
	alerts   SOSStore
	sms      SMSSender
	log      *zap.Logger
	now      func() time.Time
}

// NewEmergencyService creates a new emergency service
func NewEmergencyService(contacts ContactStore, alerts SOSStore, sms SMSSender, log *zap.Logger) *EmergencyService {
	return &EmergencyService{contacts: contacts, alerts: alerts, sms: sms, log: log, now: time.Now}
}

func validateLocation(loc *models.Location) (float64, float64, error) {
	if loc == nil || loc.Latitude == nil || loc.Longitude == nil {
		return 0, 0, models.Validation("location is required")
	}
	if !spatial.ValidCoordinate(*loc.Latitude, *loc.Longitude) {
		return 0, 0, models.Validation("Invalid location coordinates")
	}
	return *loc.Latitude, *loc.Longitude, nil
}

func phoneNumbers(contacts []models.TrustedContact) []string {
	numbers := make([]string, 0, len(contacts))
	for _, c := range contacts {
		if p := strings.TrimSpace(c.Phone); p != "" {
			numbers = append(numbers, p)
		}
	}
	return numbers
}

// SendSOS notifies all trusted contacts and records the alert. The alert is stored
// even when the gateway fails, in which case an ErrUpstream error is returned with it.
func (s *EmergencyService) SendSOS(ctx context.Context, userID string, req models.SOSRequest) (*models.SOSAlert, error) {
	lat, lon, err := validateLocation(req.Location)
	if err != nil {
		return nil, err
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		message = DefaultSOSMessage
	}

	contacts, err := s.contacts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	numbers := phoneNumbers(contacts)

	alert := &models.SOSAlert{
		ID:        uuid.NewString(),
		UserID:    userID,
		Latitude:  lat,
		Longitude: lon,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}

	var sendErr error
	if len(numbers) == 0 {
		alert.Status = models.SOSStatusNoContacts
	} else {
		body := fmt.Sprintf("SOS! %s\nLocation: %s", message, spatial.MapsLink(lat, lon))
		if sendErr = s.sms.Send(ctx, numbers, body); sendErr != nil {
			msg := sendErr.Error()
			alert.Status = models.SOSStatusFailed
			alert.ErrorMessage = &msg
			s.log.Error("SOS delivery failed", zap.String("user_id", userID), zap.Error(sendErr))
		} else {
			alert.Status = models.SOSStatusSent
			alert.ContactsNotified = len(numbers)
		}
	}

	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}

	s.log.Info("SOS alert recorded",
		zap.String("sos_id", alert.ID),
		zap.String("user_id", userID),
		zap.String("status", alert.Status),
		zap.Int("contacts_notified", alert.ContactsNotified))

	if sendErr != nil {
		return alert, models.Upstream("Failed to deliver SOS alert")
	}
	return alert, nil
}

// ShareLocation texts a live location link to all trusted contacts and returns how many were notified
func (s *EmergencyService) ShareLocation(ctx context.Context, userID string, req models.LocationShareRequest) (int, error) {
	lat, lon, err := validateLocation(req.Location)
	if err != nil {
		return 0, err
	}

	contacts, err := s.contacts.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	numbers := phoneNumbers(contacts)
	if len(numbers) == 0 {
		return 0, nil
	}

	body := fmt.Sprintf("Live location shared with you: %s", spatial.MapsLink(lat, lon))
	if err := s.sms.Send(ctx, numbers, body); err != nil {
		s.log.Error("Location share failed", zap.String("user_id", userID), zap.Error(err))
		return 0, models.Upstream("Failed to share location")
	}
	return len(numbers), nil
}

// DefaultHistoryLimit caps History when no limit is given
const DefaultHistoryLimit = 20

// History returns the user's most recent SOS alerts
func (s *EmergencyService) History(ctx context.Context, userID string, limit int) ([]models.SOSAlert, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultHistoryLimit
	}
	return s.alerts.ListByUser(ctx, userID, uint64(limit))
}
